package templates

// Why template - the "Why Waves" page. The body is markdown converted at
// startup.

func GetWhyTemplate() string {
	return whyContent
}

var whyContent = `{{define "content"}}
<article class="why prose">{{.WhyHTML}}</article>
{{end}}`

// WhyMarkdown is the source of the "Why Waves" page.
const WhyMarkdown = `# Why Waves

Waves is a client for [Lens Protocol](https://www.lens.xyz), a social graph
that lives on chain instead of inside one company's database.

## Your profile is yours

Your handle, your followers and everything you post belong to your wallet.
If Waves disappears tomorrow, your profile does not. Any other Lens app can
pick up where you left off.

## Posts, comments, mirrors and quotes

- **Posts** are what you say.
- **Comments** reply to a post.
- **Mirrors** re-share a post to your followers as it is.
- **Quotes** re-share a post with something of your own on top.

## Sign in with your wallet

There is no password. Waves asks Lens for a short challenge, you sign it with
your wallet, and Lens gives Waves a session for your profile. Signing out
revokes that session.

Waves is in **beta**. Some things will break. Tell us when they do.
`
