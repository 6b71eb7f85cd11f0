package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
)
