package templates

// Wallet templates - the wallet page, the network prompt shown by the signer
// guard, and the connect form both of them use.

func GetWalletTemplate() string {
	return walletContent
}

func GetNetworkTemplate() string {
	return networkContent
}

func GetConnectFormTemplate() string {
	return connectFormTemplate
}

var walletContent = `{{define "content"}}
<section class="wallet">
  <h2 class="page-title">{{i18n "wallet.title"}}</h2>
  {{with .Wallet}}{{if .Address}}
  <dl class="wallet-details">
    <dt>{{i18n "wallet.address"}}</dt><dd><code>{{.Address}}</code></dd>
    <dt>{{i18n "wallet.chain"}}</dt><dd>{{.ChainName}}</dd>
  </dl>
  {{if .QRCode}}<img src="{{.QRCode}}" alt="{{.Address}}" class="wallet-qr" width="256" height="256">{{end}}
  <form method="POST" action="/wallet/disconnect" class="inline-form">
    <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
    <button type="submit" class="btn-secondary">{{i18n "wallet.disconnect"}}</button>
  </form>
  {{else}}<p>{{i18n "wallet.not_connected"}}</p>{{end}}{{end}}
  {{template "connect-form" .}}
</section>
{{end}}`

var networkContent = `{{define "content"}}
<section class="network-prompt" role="dialog" aria-labelledby="network-title">
  <h2 id="network-title" class="page-title">{{i18n "network.title"}}</h2>
  <p>{{i18nf "network.body" .ChainName}}</p>
  {{template "connect-form" .}}
</section>
{{end}}`

var connectFormTemplate = `{{define "connect-form"}}<form method="POST" action="/wallet/connect" class="connect-form">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <input type="hidden" name="return_url" value="{{.CurrentURL}}">
  <label for="wallet-address">{{i18n "wallet.address"}}</label>
  <input type="text" id="wallet-address" name="address" placeholder="{{i18n "wallet.address_placeholder"}}" autocomplete="off" spellcheck="false" required pattern="0x[0-9a-fA-F]{40}">
  <label for="wallet-chain">{{i18n "wallet.chain"}}</label>
  <input type="number" id="wallet-chain" name="chain_id" value="{{.ChainID}}" min="1">
  <button type="submit" class="btn-primary">{{i18n "network.connect"}}</button>
</form>{{end}}`
