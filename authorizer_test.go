package blog_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionClaimsFor(id uuid.UUID) blog.AuthClaims {
	return &blog.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
		UID:              id.String(),
		TokenPurpose:     string(blog.PurposeSession),
	}
}

func TestAuthorizeAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin passes", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleAdmin}, nil).Once()

		err := blog.NewAuthorizer(store).AuthorizeAdmin(ctx, sessionClaimsFor(userID))

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Standard user rejected", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleStandard}, nil).Once()

		err := blog.NewAuthorizer(store).AuthorizeAdmin(ctx, sessionClaimsFor(userID))

		assert.ErrorIs(t, err, blog.ErrInsufficientRole)
	})

	t.Run("Unknown identity", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(nil, repository.NewRecordNotFound()).Once()

		err := blog.NewAuthorizer(store).AuthorizeAdmin(ctx, sessionClaimsFor(userID))

		assert.ErrorIs(t, err, blog.ErrIdentityNotFound)
	})

	t.Run("Malformed subject", func(t *testing.T) {
		claims := &blog.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
		}

		err := blog.NewAuthorizer(new(MockIdentityStore)).AuthorizeAdmin(ctx, claims)

		assert.ErrorIs(t, err, blog.ErrIdentityNotFound)
	})

	t.Run("Role change takes effect on next call", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleAdmin}, nil).Once()
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleStandard}, nil).Once()

		authorizer := blog.NewAuthorizer(store)
		claims := sessionClaimsFor(userID)

		require.NoError(t, authorizer.AuthorizeAdmin(ctx, claims))
		assert.ErrorIs(t, authorizer.AuthorizeAdmin(ctx, claims), blog.ErrInsufficientRole)
		store.AssertExpectations(t)
	})
}

func TestAuthorizeOwnerOrAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner passes without a store read", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)

		err := blog.NewAuthorizer(store).AuthorizeOwnerOrAdmin(ctx, sessionClaimsFor(userID), userID)

		assert.NoError(t, err)
		store.AssertNotCalled(t, "FindByID")
	})

	t.Run("Admin passes on someone else's resource", func(t *testing.T) {
		userID := uuid.New()
		ownerID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleAdmin}, nil).Once()

		err := blog.NewAuthorizer(store).AuthorizeOwnerOrAdmin(ctx, sessionClaimsFor(userID), ownerID)

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Standard user rejected on someone else's resource", func(t *testing.T) {
		userID := uuid.New()
		ownerID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleStandard}, nil).Once()

		err := blog.NewAuthorizer(store).AuthorizeOwnerOrAdmin(ctx, sessionClaimsFor(userID), ownerID)

		assert.ErrorIs(t, err, blog.ErrNotAuthorized)
	})

	t.Run("Nil owner id never short-circuits", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(&blog.User{ID: userID, Role: blog.RoleStandard}, nil).Once()

		err := blog.NewAuthorizer(store).AuthorizeOwnerOrAdmin(ctx, sessionClaimsFor(userID), uuid.Nil)

		assert.ErrorIs(t, err, blog.ErrNotAuthorized)
		store.AssertExpectations(t)
	})

	t.Run("Unknown identity", func(t *testing.T) {
		userID := uuid.New()
		store := new(MockIdentityStore)
		store.On("FindByID", ctx, userID).
			Return(nil, repository.NewRecordNotFound()).Once()

		err := blog.NewAuthorizer(store).AuthorizeOwnerOrAdmin(ctx, sessionClaimsFor(userID), uuid.New())

		assert.ErrorIs(t, err, blog.ErrIdentityNotFound)
	})
}
