package auth

import "errors"

// ErrEmailExists indicates a duplicate email address.
var ErrEmailExists = errors.New("email already exists")

// Error codes specific to authentication. Shared codes live in pkg/errors.
const (
	CodeEmailExists        = "email_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeUserNotFound       = "user_not_found"
	CodeAuthError          = "auth_error"
	CodeNotConfigured      = "auth_not_configured"
	CodeOAuthExchange      = "oauth_exchange_failed"
	CodeLinkingDisabled    = "account_linking_disabled"
)
