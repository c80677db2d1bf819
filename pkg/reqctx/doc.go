// Package reqctx holds request-scoped values shared between the HTTP layer
// and the services: request metadata and the caller's token claims.
//
// Middleware sets them:
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	ctx = reqctx.WithClaims(ctx, claims)
//
// and handlers read them:
//
//	if subject, ok := reqctx.SubjectFromContext(ctx); ok { ... }
//
// Claims are present only when the request carried a valid access token.
package reqctx
