package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// I18nStrings maps message keys to localized text.
type I18nStrings map[string]string

//go:embed i18n/en.json
var defaultStrings []byte

var (
	i18nStrings I18nStrings
	i18nMu      sync.RWMutex
)

// InitI18n loads the embedded English strings, then overlays
// $I18N_CONFIG_DIR/$I18N_DEFAULT_LANG.json when that file exists.
func InitI18n() {
	if err := loadI18n(GetEnv("I18N_CONFIG_DIR", "config/i18n"), GetEnv("I18N_DEFAULT_LANG", "en")); err != nil {
		slog.Warn("could not load i18n overrides", "error", err)
	}
}

func loadI18n(dir, lang string) error {
	var base I18nStrings
	if err := json.Unmarshal(defaultStrings, &base); err != nil {
		return fmt.Errorf("embedded i18n: %w", err)
	}

	i18nMu.Lock()
	defer i18nMu.Unlock()
	i18nStrings = base

	path := filepath.Join(dir, lang+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	var overlay I18nStrings
	if err := json.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	for k, v := range overlay {
		i18nStrings[k] = v
	}
	slog.Info("loaded i18n strings", "count", len(overlay), "path", path)
	return nil
}

// I18n looks up a localized string by key. Unknown keys are returned as-is
// so missing translations are visible on the page.
func I18n(key string) string {
	i18nMu.RLock()
	s := i18nStrings
	i18nMu.RUnlock()

	if s == nil {
		// Used before InitI18n, e.g. from tests
		if err := loadI18n("", ""); err == nil {
			return I18n(key)
		}
	}
	if val, ok := s[key]; ok {
		return val
	}
	return key
}

// I18nf formats the localized string for key with args.
func I18nf(key string, args ...any) string {
	return fmt.Sprintf(I18n(key), args...)
}
