package shared

import "errors"

// Sentinel errors classified by how the CLI reacts to them: configuration and
// credential errors abort the command with setup guidance, API errors surface
// the upstream failure, and input errors trigger a re-prompt.
var (
	ErrNotImplemented = errors.New("not implemented")

	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingDatabaseID  = errors.New("missing database id")

	ErrAuthFailed       = errors.New("authentication failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("access token expired")

	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrPageNotFound       = errors.New("page not found")
	ErrAlbumNotFound      = errors.New("album not found")

	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFlag     = errors.New("invalid flag value")
)
