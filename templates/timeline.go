package templates

// Timeline template - the explore feed and the signed-in dashboard.

func GetTimelineTemplate() string {
	return timelineContent
}

var timelineContent = `{{define "content"}}
<h2 class="page-title">{{.Title}}</h2>
{{template "feed-list" .}}
{{end}}`
