package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// User wraps the users table.
type User struct {
	*core.VergeResource
}

// SetPasswordWithContext changes a user's password.
func (u *User) SetPasswordWithContext(ctx context.Context, ref core.ResourceReference, password string) (core.Record, error) {
	if password == "" {
		return nil, &core.ValidationError{Field: "password", Message: "password cannot be empty"}
	}
	key, err := core.ResolveKey(ctx, u, ref)
	if err != nil {
		return nil, err
	}
	return u.UpdateWithContext(ctx, key, core.Params{"password": password})
}

// SetPassword changes a user's password using the bound REST context.
func (u *User) SetPassword(ref core.ResourceReference, password string) (core.Record, error) {
	return u.SetPasswordWithContext(u.Rest.GetCtx(), ref, password)
}
