package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"sync"

	"waves-server/internal/config"
)

// NavigationConfig is the navigation.json configuration for the primary links.
type NavigationConfig struct {
	Links []NavLinkConfig `json:"links"`
}

// NavLinkConfig is one primary link in the header and drawer.
type NavLinkConfig struct {
	Name     string `json:"name"`
	TitleKey string `json:"titleKey,omitempty"` // i18n key (defaults to "nav.{name}")
	Href     string `json:"href"`
}

// GetTitleKey returns the i18n key, deriving from name if not explicitly set
func (l NavLinkConfig) GetTitleKey() string {
	if l.TitleKey != "" {
		return l.TitleKey
	}
	return "nav." + l.Name
}

// NavItem is a rendered navigation link.
type NavItem struct {
	Name   string
	Title  string
	Href   string
	Active bool
}

// NavContext provides context for building nav items
type NavContext struct {
	CurrentPath string
}

var (
	navigationConfig     *NavigationConfig
	navigationConfigOnce sync.Once
)

// GetNavigationConfig returns the navigation configuration, loading it on first use.
func GetNavigationConfig() *NavigationConfig {
	navigationConfigOnce.Do(func() {
		navigationConfig = loadNavigationConfigFromFile()
	})
	return navigationConfig
}

func loadNavigationConfigFromFile() *NavigationConfig {
	configPath := config.GetEnv("NAVIGATION_CONFIG", "config/navigation.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("navigation config not found, using defaults", "path", configPath)
		} else {
			slog.Warn("could not read navigation config, using defaults", "path", configPath, "error", err)
		}
		return getDefaultNavigationConfig()
	}

	var cfg NavigationConfig
	if err := json.Unmarshal(data, &cfg); err != nil || len(cfg.Links) == 0 {
		slog.Error("invalid navigation config, using defaults", "path", configPath, "error", err)
		return getDefaultNavigationConfig()
	}

	slog.Info("loaded navigation configuration", "links", len(cfg.Links))
	return &cfg
}

func getDefaultNavigationConfig() *NavigationConfig {
	return &NavigationConfig{
		Links: []NavLinkConfig{
			{Name: "home", Href: "/"},
			{Name: "dashboard", Href: "/dashboard"},
			{Name: "wallet", Href: "/wallet"},
			{Name: "notifications", Href: "/notifications"},
			{Name: "why", Href: "/why"},
		},
	}
}

// GetNavItems returns the primary links with the current one marked active.
func GetNavItems(ctx NavContext) []NavItem {
	links := GetNavigationConfig().Links
	items := make([]NavItem, 0, len(links))
	for _, l := range links {
		items = append(items, NavItem{
			Name:   l.Name,
			Title:  config.I18n(l.GetTitleKey()),
			Href:   l.Href,
			Active: navActive(l.Href, ctx.CurrentPath),
		})
	}
	return items
}

// navActive matches "/" exactly and every other link by path prefix.
func navActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
