// Package httpapi exposes the hub services over a JSON HTTP API.
//
// # Routing
//
// Routes are built with chi. Signup and login are open but rate limited per
// client address; every other /api route requires a JWT bearer token minted
// at signup or login. The token TTL depends on the remember flag.
//
// # Middleware
//
// Every request passes through slog request logging, panic recovery and
// Prometheus request metrics (count and latency per route pattern). /healthz
// and /metrics sit outside the auth group.
//
// # Errors
//
// Handlers return JSON bodies of the form {"error": "..."}. Service sentinel
// errors map to statuses: duplicate email and revision conflicts to 409,
// bad credentials to 401, unknown users and notifications to 404, invalid
// profile payloads to 400. Anything else is a 500 and is logged server-side
// with the underlying error, which is never exposed to the client.
package httpapi
