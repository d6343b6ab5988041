package auth

import "context"

// SetIdentityForTest injects an identity into the context for testing purposes.
func SetIdentityForTest(ctx context.Context, identity string) context.Context {
	return WithIdentity(ctx, identity, "")
}
