package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"waves-server/internal/config"
	"waves-server/internal/render"
	"waves-server/templates"
)

// PageData is what every page template renders. Page handlers fill the
// fields their content block uses.
type PageData struct {
	Title           string
	PageDescription string
	PageImage       string
	CurrentURL      string
	ThemeClass      string
	CSRFToken       string
	NavItems        []NavItem
	Toasts          []Toast

	// Identity control
	LoggedIn      bool
	UserLabel     string
	UserAvatar    template.URL
	LogoutPending bool

	ChainID   int64
	ChainName string

	Error    string
	Posts    []render.PostView
	NextURL  string
	Post     render.PostView
	Comments []render.PostView
	Profile  *render.AuthorCard
	Wallet   *WalletView
	Login    *LoginView
	WhyHTML  template.HTML
}

// WalletView is the bound signer as shown on the wallet page.
type WalletView struct {
	Address   string
	ChainID   int64
	ChainName string
	QRCode    template.URL // data: URL of a PNG
}

// LoginView is the state of the sign-in flow.
type LoginView struct {
	ChallengeText string
	Profiles      []render.AuthorCard
}

// cardData is a post view plus what its action forms need from the page.
type cardData struct {
	Post      render.PostView
	CSRFToken string
	ReturnURL string
}

// actionResponse is rendered for HelmJS action requests.
type actionResponse struct {
	Card   *cardData
	Toasts []Toast
}

// pageTemplates holds one compiled template set per page, since every page
// defines its own "content" block.
type pageTemplates struct {
	pages   map[string]*template.Template
	actions *template.Template
}

var pageContents = map[string]func() string{
	"timeline":      templates.GetTimelineTemplate,
	"profile":       templates.GetProfileTemplate,
	"thread":        templates.GetThreadTemplate,
	"notifications": templates.GetNotificationsTemplate,
	"wallet":        templates.GetWalletTemplate,
	"network":       templates.GetNetworkTemplate,
	"login":         templates.GetLoginTemplate,
	"why":           templates.GetWhyTemplate,
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"i18n":       config.I18n,
		"i18nf":      config.I18nf,
		"siteConfig": GetSiteConfig,
		"card": func(v render.PostView, p *PageData) cardData {
			return cardData{Post: v, CSRFToken: p.CSRFToken, ReturnURL: p.CurrentURL}
		},
		"isoTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
		"collapsedHeight": func() int { return render.CollapsedHeightPx },
	}
}

func newPageTemplates() (*pageTemplates, error) {
	shared := templates.GetBaseTemplates() +
		templates.GetFragmentTemplate() +
		templates.GetActionFragmentTemplates() +
		templates.GetPostTemplates() +
		templates.GetConnectFormTemplate()

	pt := &pageTemplates{pages: make(map[string]*template.Template, len(pageContents))}
	for name, content := range pageContents {
		tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(shared + content())
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pt.pages[name] = tmpl
	}
	actions, err := template.New("actions").Funcs(templateFuncs()).Parse(shared)
	if err != nil {
		return nil, fmt.Errorf("parse action templates: %w", err)
	}
	pt.actions = actions
	return pt, nil
}

// renderPage writes a full page, or just the page-content fragment for
// HelmJS requests.
func (p *pageTemplates) renderPage(w http.ResponseWriter, r *http.Request, name string, status int, data *PageData) {
	tmpl, ok := p.pages[name]
	if !ok {
		LoggerFromContext(r.Context()).Error("unknown page template", "page", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	entry := "base"
	if isHelmRequest(r) {
		entry = "fragment"
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		LoggerFromContext(r.Context()).Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderFragment renders one of the action fragments to a string.
func (p *pageTemplates) renderFragment(name string, data any) string {
	var buf bytes.Buffer
	if err := p.actions.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render fragment", "fragment", name, "error", err)
		return ""
	}
	return buf.String()
}
