package templates

// Thread template - one publication and its comments.

func GetThreadTemplate() string {
	return threadContent
}

var threadContent = `{{define "content"}}
{{if .Error}}<div class="alert alert-error" role="alert">{{.Error}}</div>{{end}}
{{if .Post.ID}}{{template "post-card" (card .Post $)}}
<section class="comments">
  <h3 class="section-title">{{i18n "post.comments"}}</h3>
  {{range .Comments}}{{template "post-card" (card . $)}}
  {{end}}
  {{if not .Comments}}<p class="empty-state">{{i18n "post.no_comments"}}</p>{{end}}
  {{if .NextURL}}<a href="{{.NextURL}}" class="load-more" h-get h-target="#page-content" h-swap="inner" h-push-url>{{i18n "feed.load_more"}}</a>{{end}}
</section>{{end}}
{{end}}`
