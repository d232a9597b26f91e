package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// requests to the AI service.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside AuthorizationHeaderName.
const BearerPrefix = "Bearer "
