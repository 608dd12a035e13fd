package templates

// Login template - Sign in with Lens in two steps: pick a managed profile to
// get a challenge, then paste the wallet's signature of it.

func GetLoginTemplate() string {
	return loginContent
}

var loginContent = `{{define "content"}}
<section class="login">
  <h2 class="page-title">{{i18n "login.title"}}</h2>
  {{if .Error}}<div class="alert alert-error" role="alert">{{.Error}}</div>{{end}}
  {{with .Login}}{{if .ChallengeText}}
  <p>{{i18n "login.sign_prompt"}}</p>
  <pre class="challenge">{{.ChallengeText}}</pre>
  <form method="POST" action="/login" class="login-form">
    <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
    <input type="hidden" name="action" value="authenticate">
    <label for="signature">{{i18n "login.signature"}}</label>
    <textarea id="signature" name="signature" rows="3" spellcheck="false" required></textarea>
    <button type="submit" class="btn-primary">{{i18n "login.submit"}}</button>
  </form>
  <form method="POST" action="/login" class="inline-form">
    <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
    <input type="hidden" name="action" value="cancel">
    <button type="submit" class="ghost-btn">{{i18n "login.cancel"}}</button>
  </form>
  {{else if .Profiles}}
  <form method="POST" action="/login" class="login-form">
    <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
    <input type="hidden" name="action" value="challenge">
    <fieldset>
      <legend>{{i18n "login.pick_profile"}}</legend>
      {{range $i, $p := .Profiles}}<label class="profile-choice"><input type="radio" name="profile_id" value="{{$p.ID}}"{{if eq $i 0}} checked{{end}}> <img src="{{$p.Avatar}}" alt="" class="avatar-sm" loading="lazy"> {{$p.Name}}{{if $p.Handle}} <span class="author-handle">@{{$p.Handle}}</span>{{end}}</label>
      {{end}}
    </fieldset>
    <button type="submit" class="btn-primary">{{i18n "login.request_challenge"}}</button>
  </form>
  {{else}}<p>{{i18n "login.no_profiles"}}</p>{{end}}{{end}}
</section>
{{end}}`
