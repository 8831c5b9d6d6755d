package blog_test

import (
	"context"
	"testing"

	blog "github.com/goliatone/go-blog"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     blog.RegisterUserMessage
		wantErr bool
	}{
		{
			name: "valid payload",
			msg: blog.RegisterUserMessage{
				Username: "newuser",
				Email:    "new@example.com",
				Password: "password123",
			},
			wantErr: false,
		},
		{
			name: "valid payload with phone",
			msg: blog.RegisterUserMessage{
				Email:    "new@example.com",
				Password: "password123",
				Phone:    "+14155552671",
			},
			wantErr: false,
		},
		{
			name:    "missing email",
			msg:     blog.RegisterUserMessage{Password: "password123"},
			wantErr: true,
		},
		{
			name:    "bad email",
			msg:     blog.RegisterUserMessage{Email: "not-an-email", Password: "password123"},
			wantErr: true,
		},
		{
			name:    "short password",
			msg:     blog.RegisterUserMessage{Email: "new@example.com", Password: "short"},
			wantErr: true,
		},
		{
			name: "short username",
			msg: blog.RegisterUserMessage{
				Username: "ab",
				Email:    "new@example.com",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name: "bad phone",
			msg: blog.RegisterUserMessage{
				Email:    "new@example.com",
				Password: "password123",
				Phone:    "12",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterUserHandler(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := blog.NewRepositoryManager(db)

	handler := blog.NewRegisterUserHandler(repo)

	t.Run("registers a user with a hashed password", func(t *testing.T) {
		user, err := handler.Execute(ctx, blog.RegisterUserMessage{
			Username: "frank",
			Email:    "frank@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, blog.RoleStandard, user.Role)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, blog.ComparePasswordAndHash("password123", user.PasswordHash))
	})

	t.Run("derives the username from the email when absent", func(t *testing.T) {
		user, err := handler.Execute(ctx, blog.RegisterUserMessage{
			Email:    "grace@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "grace", user.Username)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := handler.Execute(ctx, blog.RegisterUserMessage{
			Email:    "frank@example.com",
			Password: "password123",
		})

		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryConflict, richErr.Category)
	})

	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		_, err := handler.Execute(ctx, blog.RegisterUserMessage{
			Email:    "not-an-email",
			Password: "password123",
		})

		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := handler.Execute(cancelled, blog.RegisterUserMessage{
			Email:    "late@example.com",
			Password: "password123",
		})

		assert.Error(t, err)
	})
}
