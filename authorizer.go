package blog

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// RoleAuthorizer implements Authorizer against the credential store. It
// never caches role lookups across requests: a role downgrade takes effect
// on the very next request.
type RoleAuthorizer struct {
	store  IdentityStore
	logger Logger
}

var _ Authorizer = (*RoleAuthorizer)(nil)

// NewAuthorizer returns a new RoleAuthorizer
func NewAuthorizer(store IdentityStore) *RoleAuthorizer {
	return &RoleAuthorizer{
		store:  store,
		logger: defLogger{},
	}
}

func (a *RoleAuthorizer) WithLogger(logger Logger) *RoleAuthorizer {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// AuthorizeAdmin loads the identity for the claim and requires the admin
// role. A valid token whose account has since been deleted fails with
// ErrIdentityNotFound.
func (a *RoleAuthorizer) AuthorizeAdmin(ctx context.Context, claims AuthClaims) error {
	user, err := a.loadIdentity(ctx, claims)
	if err != nil {
		return err
	}

	if !user.Role.IsAdmin() {
		return ErrInsufficientRole
	}

	return nil
}

// AuthorizeOwnerOrAdmin succeeds when the claim's subject owns the resource
// or the claim's current role is admin. The owner match short-circuits
// without a store read.
func (a *RoleAuthorizer) AuthorizeOwnerOrAdmin(ctx context.Context, claims AuthClaims, ownerID uuid.UUID) error {
	if claims == nil {
		return ErrMissingCredential
	}

	if ownerID != uuid.Nil && claims.Subject() == ownerID.String() {
		return nil
	}

	user, err := a.loadIdentity(ctx, claims)
	if err != nil {
		return err
	}

	if user.Role.IsAdmin() {
		return nil
	}

	return ErrNotAuthorized
}

func (a *RoleAuthorizer) loadIdentity(ctx context.Context, claims AuthClaims) (*User, error) {
	if claims == nil {
		return nil, ErrMissingCredential
	}

	subject, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, ErrIdentityNotFound
	}

	user, err := a.store.FindByID(ctx, subject)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, WrapPersistence(err, "failed to load identity for authorization")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return user, nil
}
