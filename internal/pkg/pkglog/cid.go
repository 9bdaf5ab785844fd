package pkglog

import "context"

type chainIDContextKey struct{}

const invalidCorrelationID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context.
//
// Middleware is expected to set this value early in the request lifecycle so
// it can be attached to logs, websocket notifications and upload metadata.
func GetCorrelationID(ctx context.Context) string {
	clm, ok := ctx.Value(chainIDContextKey{}).(string)
	if !ok {
		return invalidCorrelationID
	}
	return clm
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, chainIDContextKey{}, cid)
}

// HasCorrelationID reports whether a usable correlation ID is present.
func HasCorrelationID(ctx context.Context) bool {
	cid := GetCorrelationID(ctx)
	return cid != "" && cid != invalidCorrelationID
}
