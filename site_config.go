package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"

	"waves-server/internal/config"
)

// SiteConfig is the site.json configuration for head tags and site identity.
// Scripts (for example a HelmJS build for partial page updates) are opt-in.
type SiteConfig struct {
	Site      SiteIdentity    `json:"site"`
	Meta      MetaConfig      `json:"meta"`
	OpenGraph OpenGraphConfig `json:"openGraph"`
	Links     LinksConfig     `json:"links"`
	Scripts   []ScriptConfig  `json:"scripts"`

	gateway string
}

// SiteIdentity contains site-wide identity information
type SiteIdentity struct {
	Name        string `json:"name"`
	TitleFormat string `json:"titleFormat"` // e.g., "{title} - {siteName}"
	Description string `json:"description"`
}

// MetaConfig contains meta tag configurations
type MetaConfig struct {
	ThemeColor ThemeColorConfig `json:"themeColor"`
}

// ThemeColorConfig contains theme color for light/dark modes
type ThemeColorConfig struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// OpenGraphConfig contains Open Graph defaults
type OpenGraphConfig struct {
	Type  string `json:"type"`
	Image string `json:"image"`
}

// LinksConfig contains link tags (favicon, stylesheets, preconnect)
type LinksConfig struct {
	Favicon    string   `json:"favicon"`
	Stylesheet string   `json:"stylesheet"`
	Preconnect []string `json:"preconnect"`
}

// ScriptConfig represents a script tag
type ScriptConfig struct {
	Src   string `json:"src"`
	Defer bool   `json:"defer,omitempty"`
	Async bool   `json:"async,omitempty"`
}

var (
	siteConfig     *SiteConfig
	siteConfigOnce sync.Once
)

// GetSiteConfig returns the site configuration, loading it on first use.
func GetSiteConfig() *SiteConfig {
	siteConfigOnce.Do(func() {
		siteConfig = loadSiteConfig(
			config.GetEnv("SITE_CONFIG", "config/site.json"),
			config.GetEnv("IPFS_GATEWAY", "https://gw.ipfs-lens.dev/ipfs"),
		)
	})
	return siteConfig
}

// loadSiteConfig overlays the JSON file at path onto the defaults, so a
// site.json only needs the keys it changes. The IPFS gateway origin is always
// preconnected since avatars and post media are served from it.
func loadSiteConfig(path, gateway string) *SiteConfig {
	cfg := defaultSiteConfig()
	cfg.gateway = strings.TrimRight(gateway, "/")

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("no site config, using defaults", "path", path)
	case err != nil:
		slog.Warn("could not read site config, using defaults", "path", path, "error", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			slog.Error("invalid site config, using defaults", "path", path, "error", err)
			cfg = defaultSiteConfig()
			cfg.gateway = strings.TrimRight(gateway, "/")
		} else {
			slog.Info("loaded site configuration", "path", path, "name", cfg.Site.Name, "scripts", len(cfg.Scripts))
		}
	}

	if o := originOf(cfg.gateway); o != "" && !slices.Contains(cfg.Links.Preconnect, o) {
		cfg.Links.Preconnect = append([]string{o}, cfg.Links.Preconnect...)
	}
	return cfg
}

func defaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		Site: SiteIdentity{
			Name:        "Waves",
			TitleFormat: "{title} - {siteName}",
			Description: "A Lens Protocol social client",
		},
		Meta: MetaConfig{
			ThemeColor: ThemeColorConfig{Light: "#f7f7fb", Dark: "#121118"},
		},
		OpenGraph: OpenGraphConfig{Type: "website", Image: "/static/favicon.svg"},
		Links: LinksConfig{
			Favicon:    "/static/favicon.svg",
			Stylesheet: "/static/style.css",
			Preconnect: []string{"https://ik.imagekit.io", "https://livepeercdn.studio"},
		},
	}
}

// originOf returns scheme://host of an http(s) URL, or "".
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// FormatTitle applies the title format. An empty title is just the site name.
func (c *SiteConfig) FormatTitle(title string) string {
	if title == "" {
		return c.Site.Name
	}
	return strings.NewReplacer("{title}", title, "{siteName}", c.Site.Name).Replace(c.Site.TitleFormat)
}

// GetDescription returns override, or the site description when it is empty.
func (c *SiteConfig) GetDescription(override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	return c.Site.Description
}

// GetOGImage returns the Open Graph image for a page. Crawlers cannot fetch
// ipfs:// or ar:// URIs, so those are rewritten to gateway URLs.
func (c *SiteConfig) GetOGImage(override string) string {
	switch {
	case override == "":
		return c.OpenGraph.Image
	case strings.HasPrefix(override, "ipfs://") && c.gateway != "":
		return c.gateway + "/" + strings.TrimPrefix(override, "ipfs://")
	case strings.HasPrefix(override, "ar://"):
		return "https://arweave.net/" + strings.TrimPrefix(override, "ar://")
	}
	return override
}
