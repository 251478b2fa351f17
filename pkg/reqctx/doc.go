// Package reqctx carries request-scoped metadata through context.Context.
//
// HTTP middleware stores a RequestMeta for every request; services and the
// log handler read it back without depending on Fiber:
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	id := reqctx.RequestIDFromContext(ctx)
//
// Background work (NATS workers, the sync CLI) starts from a context that has
// no RequestMeta; getters return zero values in that case.
package reqctx
