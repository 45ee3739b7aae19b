package logging

import (
	"context"
	"slices"
)

type ctxKey struct{}

// ContextWith returns a copy of ctx carrying key–value pairs. Every Logger
// method called with the returned context (or one derived from it) adds
// them to the entry, ahead of its own args.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := fromContext(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(append(merged, prev...), args...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func fromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(ctxKey{}).([]any)
	return attrs
}

// withContext prepends the pairs carried by ctx to args.
func withContext(ctx context.Context, args []any) []any {
	attrs := fromContext(ctx)
	if len(attrs) == 0 {
		return args
	}
	return append(slices.Clone(attrs), args...)
}
