package reqctx

import (
	"context"
	"testing"
)

func TestRequestIDFromContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q", got)
	}

	ctx := WithRequestMeta(context.Background(), &RequestMeta{RequestID: "abc"})
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Errorf("RequestIDFromContext() = %q, want abc", got)
	}

	var nilMeta *RequestMeta
	ctx = WithRequestMeta(context.Background(), nilMeta)
	if _, ok := RequestMetaFromContext(ctx); ok {
		t.Error("nil RequestMeta reported as present")
	}
}
