package templates

// Profile template - a profile header followed by its publications.

func GetProfileTemplate() string {
	return profileContent
}

var profileContent = `{{define "content"}}
{{with .Profile}}<section class="profile-header">
  <img src="{{.Avatar}}" alt="" class="avatar-xl">
  <div class="profile-info">
    <h2 class="profile-name">{{.Name}}</h2>
    {{if .Handle}}<p class="author-handle">@{{.Handle}}</p>{{end}}
    {{if .Bio}}<p class="bio">{{.Bio}}</p>{{end}}
    <div class="follow-stats"><span><b>{{.Followers}}</b> {{i18n "post.followers"}}</span> <span><b>{{.Following}}</b> {{i18n "post.following"}}</span></div>
  </div>
</section>
<h3 class="section-title">{{i18n "profile.publications"}}</h3>{{end}}
{{template "feed-list" .}}
{{end}}`
