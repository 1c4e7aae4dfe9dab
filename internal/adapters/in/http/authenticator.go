package http

import "crypto/subtle"

// HeaderWebhookToken carries the shared partner secret on webhook requests.
const HeaderWebhookToken = "X-Webhook-Token"

// Authenticator validates the shared-secret token presented by partner
// webhook calls. An empty configured secret disables the check, which keeps
// local development and tests free of token plumbing.
type Authenticator struct {
	secret string
}

// NewAuthenticator creates an authenticator for the given shared secret.
func NewAuthenticator(secret string) Authenticator {
	return Authenticator{secret: secret}
}

// Authenticate reports whether the presented token matches the configured
// secret. The comparison is constant-time so the token cannot be probed
// byte by byte.
func (a Authenticator) Authenticate(token string) bool {
	if a.secret == "" {
		return true
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) == 1
}
