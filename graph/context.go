package graph

import (
	"context"

	"feedboard/services"
)

type identityKey struct{}

// WithIdentity attaches the verified caller identity for the resolvers.
func WithIdentity(ctx context.Context, id services.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func identityFrom(ctx context.Context) (services.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(services.Identity)
	return id, ok
}
