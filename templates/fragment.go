package templates

// Fragment templates - render pieces of a page without the base wrapper.
// Used for HelmJS partial updates (requests carrying the H-Request header).

// GetFragmentTemplate returns the fragment wrapper template.
// Parse together with content templates to enable fragment rendering.
func GetFragmentTemplate() string {
	return fragmentTemplate
}

// fragmentTemplate renders the page-content wrapper for HelmJS requests.
// Navigation links target #page-content; the nav and toasts are updated
// out of band so active states and flash messages stay in sync.
var fragmentTemplate = `{{define "fragment"}}{{$site := siteConfig}}<title>{{$site.FormatTitle .Title}}</title>
<main id="main-content">
  <h1 class="sr-only">{{.Title}}</h1>
  {{template "content" .}}
</main>
{{template "nav-oob" .}}{{template "oob-toasts" .Toasts}}{{end}}

{{define "nav-oob"}}
<span id="nav-links" class="nav-links" h-oob="morph">{{range .NavItems}}<a href="{{.Href}}" h-get h-target="#page-content" h-swap="inner" h-push-url h-scroll="top" class="nav-tab{{if .Active}} active{{end}}"{{if .Active}} aria-current="page"{{end}}>{{.Title}}</a>{{end}}</span>
{{end}}`

// GetActionFragmentTemplates returns the templates used to answer action
// POSTs from HelmJS: the re-rendered control plus an out-of-band toast.
func GetActionFragmentTemplates() string {
	return oobToastsTemplate + actionResponseTemplate
}

var oobToastsTemplate = `{{define "oob-toasts"}}{{if .}}<div id="toasts" class="toasts" aria-live="polite" h-oob="true">{{range .}}{{template "toast" .}}{{end}}</div>{{end}}{{end}}`

var actionResponseTemplate = `{{define "like-response"}}{{template "like-button" .Card}}{{template "oob-toasts" .Toasts}}{{end}}
{{define "mirror-response"}}{{template "mirror-button" .Card}}{{template "oob-toasts" .Toasts}}{{end}}
{{define "toast-response"}}{{template "oob-toasts" .Toasts}}{{end}}`
