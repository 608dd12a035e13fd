package templates

// Post card partials - shared by every page that lists publications.
//
// "post-card" and "post-actions" take a card value (post view plus the page's
// CSRF token and return URL); "quoted-card", "author-card", "post-body" and
// "post-media" take the render view models directly.

func GetPostTemplates() string {
	return postCardTemplate + authorCardTemplate + postBodyTemplate + postMediaTemplate + postActionsTemplate + feedListTemplate
}

var postCardTemplate = `{{define "post-card"}}{{$p := .Post}}<article class="post-card" id="item-{{$p.ItemID}}" data-type="{{$p.Typename}}">
  {{range $p.Banners}}<div class="banner banner-{{.Kind}}">{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</div>
  {{end}}<header class="post-header">
    {{template "author-card" $p.Author}}
    <a href="{{$p.Href}}" class="post-time"><time datetime="{{isoTime $p.CreatedAt}}">{{$p.TimeAgo}}</time></a>
  </header>
  {{template "post-body" $p}}
  {{template "post-media" $p.Media}}
  {{with $p.Quoted}}<blockquote class="quoted-post">{{template "quoted-card" .}}</blockquote>{{end}}
  {{template "post-actions" .}}
</article>{{end}}

{{define "quoted-card"}}<article class="post-card quoted" id="quoted-{{.ID}}">
  <header class="post-header">
    {{template "author-card" .Author}}
    <a href="{{.Href}}" class="post-time"><time datetime="{{isoTime .CreatedAt}}">{{.TimeAgo}}</time></a>
  </header>
  {{template "post-body" .}}
  {{template "post-media" .Media}}
</article>{{end}}`

var authorCardTemplate = `{{define "author-card"}}<div class="author">
  <a href="{{.Href}}" class="author-link" rel="author"><img src="{{.Avatar}}" alt="" class="avatar" loading="lazy"> <span class="author-name">{{.Name}}</span>{{if .Handle}} <span class="author-handle">@{{.Handle}}</span>{{end}}</a>
  <div class="hover-card" role="tooltip">
    <img src="{{.Avatar}}" alt="" class="avatar-lg" loading="lazy">
    <strong>{{.Name}}</strong>{{if .Handle}} <span class="author-handle">@{{.Handle}}</span>{{end}}
    {{if .Bio}}<p class="bio clamp">{{.Bio}}</p>{{end}}
    <div class="follow-stats"><span><b>{{.Followers}}</b> {{i18n "post.followers"}}</span> <span><b>{{.Following}}</b> {{i18n "post.following"}}</span></div>
  </div>
</div>{{end}}`

var postBodyTemplate = `{{define "post-body"}}{{if .Body}}{{if .Collapsible}}<div class="post-body spoiler">
  <input type="checkbox" id="more-{{.ItemID}}-{{.ID}}-{{.Depth}}" class="spoiler-toggle">
  <div class="spoiler-content" style="max-height: {{collapsedHeight}}px">{{.Body}}</div>
  <label for="more-{{.ItemID}}-{{.ID}}-{{.Depth}}" class="spoiler-label"><span class="show-more">{{i18n "post.show_more"}}</span><span class="show-less">{{i18n "post.show_less"}}</span></label>
</div>{{else}}<div class="post-body">{{.Body}}</div>{{end}}{{end}}{{end}}`

var postMediaTemplate = `{{define "post-media"}}{{with .}}{{if eq .Kind "image"}}<figure class="post-media"><img src="{{.Src}}" alt="{{.Alt}}" class="media-image" loading="lazy"></figure>{{else if eq .Kind "video"}}<figure class="post-media"><video controls preload="metadata" playsinline{{if .Cover}} poster="{{.Cover}}"{{end}}><source src="{{.Src}}" type="{{.Type}}">{{i18n "post.video_unavailable"}}</video></figure>{{else if eq .Kind "audio"}}<figure class="post-media media-audio">{{if .Cover}}<img src="{{.Cover}}" alt="" class="media-cover" loading="lazy">{{end}}<audio controls preload="none" src="{{.Src}}"></audio></figure>{{end}}{{end}}{{end}}`

var postActionsTemplate = `{{define "post-actions"}}{{$p := .Post}}<footer class="post-actions">
  <a href="{{$p.Href}}" class="action comment" title="{{i18n "post.comment"}}">💬 <span class="count">{{$p.Stats.Comments}}</span></a>
  {{template "mirror-button" .}}
  {{template "like-button" .}}
  <span class="action collect" title="{{i18n "post.collect"}}">▣ <span class="count">{{$p.Stats.Collects}}</span></span>
</footer>{{end}}

{{define "mirror-button"}}<form id="mirror-{{.Post.ID}}" method="POST" action="/mirror" class="action-form" h-post h-target="#mirror-{{.Post.ID}}" h-swap="outer">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <input type="hidden" name="id" value="{{.Post.ID}}">
  <input type="hidden" name="author" value="{{.Post.Author.Handle}}">
  <input type="hidden" name="mirrors" value="{{.Post.Stats.Mirrors}}">
  <input type="hidden" name="return_url" value="{{.ReturnURL}}">
  <button type="submit" class="action mirror" title="{{i18n "post.mirror"}}">⟲ <span class="count">{{.Post.Stats.Mirrors}}</span></button>
</form>{{end}}

{{define "like-button"}}<form id="like-{{.Post.ID}}" method="POST" action="/react" class="action-form" h-post h-target="#like-{{.Post.ID}}" h-swap="outer">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <input type="hidden" name="id" value="{{.Post.ID}}">
  <input type="hidden" name="reacted" value="{{.Post.Reacted}}">
  <input type="hidden" name="upvotes" value="{{.Post.Stats.Upvotes}}">
  <input type="hidden" name="author" value="{{.Post.Author.Handle}}">
  <input type="hidden" name="return_url" value="{{.ReturnURL}}">
  <button type="submit" class="action like{{if .Post.Reacted}} reacted{{end}}" title="{{i18n "post.like"}}" aria-pressed="{{.Post.Reacted}}"{{if .Post.ReactPending}} disabled{{end}}>{{if .Post.Reacted}}♥{{else}}♡{{end}} <span class="count">{{.Post.Stats.Upvotes}}</span></button>
</form>{{end}}`

var feedListTemplate = `{{define "feed-list"}}{{if .Error}}<div class="alert alert-error" role="alert">{{.Error}}</div>{{end}}
<div id="feed" class="feed">
{{range .Posts}}{{template "post-card" (card . $)}}
{{end}}</div>
{{if not .Posts}}{{if not .Error}}<div class="empty-state"><p>{{i18n "feed.empty"}}</p></div>{{end}}{{end}}
{{if .NextURL}}<a href="{{.NextURL}}" class="load-more" h-get h-target="#page-content" h-swap="inner" h-push-url>{{i18n "feed.load_more"}}</a>{{end}}{{end}}`
