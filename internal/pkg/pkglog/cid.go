package pkglog

import "context"

type correlationIDKey struct{}

const noCorrelationID = "[no_correlation_id]"

// GetCorrelationID returns the correlation ID stored in ctx.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return noCorrelationID
	}
	return cid
}

// SetCorrelationID stores cid in ctx.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}
