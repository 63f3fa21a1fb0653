package domain

// OAuth callback error codes sent by the API when the identity provider handoff fails.
const (
	OAuthFailed        = "oauth_failed"
	OAuthInvalidDomain = "invalid_domain"
	OAuthServerError   = "server_error"
)

var oauthMessages = map[string]string{
	OAuthFailed:        "Login dengan Google gagal. Silakan coba lagi.",
	OAuthInvalidDomain: "Gunakan email kampus untuk masuk.",
	OAuthServerError:   "Terjadi kesalahan pada server. Coba beberapa saat lagi.",
}

// OAuthErrorMessage maps a callback error code to the message shown to the user.
func OAuthErrorMessage(code string) string {
	if msg, ok := oauthMessages[code]; ok {
		return msg
	}
	return "Terjadi kesalahan saat login."
}
