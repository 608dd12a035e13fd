package templates

// Base template - shared structure for all HTML pages.
// Page templates define the "content" block.

func GetBaseTemplates() string {
	return baseTemplate + headerTemplate + footerTemplate + toastsTemplate
}

var baseTemplate = `{{define "base"}}{{$site := siteConfig}}<!DOCTYPE html>
<html lang="en"{{if .ThemeClass}} class="{{.ThemeClass}}"{{end}}>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="theme-color" content="{{$site.Meta.ThemeColor.Light}}" media="(prefers-color-scheme: light)">
  <meta name="theme-color" content="{{$site.Meta.ThemeColor.Dark}}" media="(prefers-color-scheme: dark)">
  <meta name="description" content="{{$site.GetDescription .PageDescription}}">
  <meta property="og:title" content="{{$site.FormatTitle .Title}}">
  <meta property="og:description" content="{{$site.GetDescription .PageDescription}}">
  <meta property="og:type" content="{{$site.OpenGraph.Type}}">
  <meta property="og:image" content="{{$site.GetOGImage .PageImage}}">
  <title>{{$site.FormatTitle .Title}}</title>
  <link rel="icon" href="{{$site.Links.Favicon}}">
  {{range $site.Links.Preconnect}}<link rel="preconnect" href="{{.}}">
  {{end}}<link rel="stylesheet" href="{{$site.Links.Stylesheet}}">
  {{range $site.Scripts}}<script src="{{.Src}}"{{if .Defer}} defer{{end}}{{if .Async}} async{{end}}></script>
  {{end}}
</head>
<body id="top">
  <a href="#main-content" class="skip-link">Skip to content</a>
  <div class="container">
    {{template "header" .}}
    <div id="page-content">
      <main id="main-content">
        <h1 class="sr-only">{{.Title}}</h1>
        {{template "content" .}}
      </main>
    </div>
    {{template "footer" .}}
  </div>
</body>
</html>{{end}}
`

var headerTemplate = `{{define "header"}}
<header class="sticky-section">
  <nav class="shell">
    <details class="nav-drawer">
      <summary class="burger" aria-label="{{i18n "nav.menu"}}">☰</summary>
      <div class="drawer-links">
        {{range .NavItems}}<a href="{{.Href}}" class="drawer-link{{if .Active}} active{{end}}"{{if .Active}} aria-current="page"{{end}}>{{.Title}}</a>
        {{end}}
      </div>
    </details>
    <a href="/" class="brand">{{i18n "brand.name"}} <span class="badge-beta">{{i18n "brand.beta"}}</span></a>
    <span id="nav-links" class="nav-links">{{range .NavItems}}<a href="{{.Href}}" h-get h-target="#page-content" h-swap="inner" h-push-url h-scroll="top" class="nav-tab{{if .Active}} active{{end}}"{{if .Active}} aria-current="page"{{end}}>{{.Title}}</a>{{end}}</span>
    <div class="ml-auto flex-center gap-sm">
      <form method="POST" action="/theme" class="inline-form">
        <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
        <input type="hidden" name="return_url" value="{{.CurrentURL}}">
        <button type="submit" class="ghost-btn" title="{{i18n "nav.theme"}}" aria-label="{{i18n "nav.theme"}}">◐</button>
      </form>
      {{template "identity" .}}
    </div>
  </nav>
</header>
{{end}}

{{define "identity"}}<span id="identity">{{if .LoggedIn}}<details class="identity-menu">
  <summary class="identity-toggle" title="{{.UserLabel}}"><img src="{{.UserAvatar}}" alt="" class="avatar-sm" loading="lazy"> <span class="identity-label">{{.UserLabel}}</span></summary>
  <div class="identity-dropdown">
    <form method="POST" action="/logout" class="inline-form">
      <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
      <button type="submit" class="ghost-btn"{{if .LogoutPending}} disabled{{end}}>{{if .LogoutPending}}{{i18n "nav.signing_out"}}{{else}}{{i18n "nav.sign_out"}}{{end}}</button>
    </form>
  </div>
</details>{{else}}<a href="/login" class="btn-primary">{{i18n "nav.sign_in"}}</a>{{end}}</span>{{end}}`

var footerTemplate = `{{define "footer"}}
<footer>
{{template "toasts" .Toasts}}
<a href="#top" class="scroll-top" aria-label="Scroll to top">↑</a>
</footer>
{{end}}`

var toastsTemplate = `{{define "toasts"}}<div id="toasts" class="toasts" aria-live="polite">{{range .}}{{template "toast" .}}{{end}}</div>{{end}}

{{define "toast"}}<div class="toast toast-{{.Kind}}" role="status"><strong class="toast-title">{{.Title}}</strong> <span class="toast-message">{{.Message}}</span></div>{{end}}`
