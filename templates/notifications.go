package templates

// Notifications template - placeholder until notifications are rendered.

func GetNotificationsTemplate() string {
	return notificationsContent
}

var notificationsContent = `{{define "content"}}
<section class="coming-soon">
  <h2 class="page-title">{{i18n "notifications.title"}}</h2>
  <p class="coming-soon-text">{{i18n "notifications.coming_soon"}}</p>
</section>
{{end}}`
