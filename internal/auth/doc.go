// Package auth provides session token authentication for the hub HTTP API.
//
// # Session Tokens
//
// Clients authenticate with JWT tokens signed with HS256 using the configured
// jwt_secret. A token carries the signed-in user's email in the standard
// "sub" claim plus the display name and the remember flag:
//
//	verifier := auth.NewJWTVerifier(secret)
//	token, err := verifier.Generate(auth.SessionClaims{Email: email, Name: name}, ttl)
//	claims, err := verifier.Verify(token)
//
// The remember flag records whether the user opted into a long-lived session
// at sign-in; the HTTP layer uses it to pick the token lifetime.
//
// # Context Propagation
//
// The HTTP middleware verifies the bearer token and attaches the claims to
// the request context:
//
//	ctx = auth.WithSession(ctx, claims)
//	claims := auth.FromContext(ctx) // nil when unauthenticated
//
// Handlers behind the middleware can use MustFromContext, which panics if
// the middleware did not run.
package auth
