package blog

import (
	"context"
	"crypto/subtle"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// SessionTokenDuration is the lifetime of a session token and the
	// retention window for blacklist entries
	SessionTokenDuration = 30 * 24 * time.Hour
	// ResetTokenDuration is the lifetime of a password-reset token
	ResetTokenDuration = time.Hour
)

// Issuer implements SessionIssuer. Session tokens are held only by the
// client; the server stores a token string solely when it is revoked.
// Reset tokens are additionally persisted on the user row so consumption
// can be single-use.
type Issuer struct {
	tokens        TokenService
	blacklist     TokenBlacklist
	repo          RepositoryManager
	sessionTTL    time.Duration
	resetTokenTTL time.Duration
	logger        Logger
}

var _ SessionIssuer = (*Issuer)(nil)

// NewIssuer returns a new Issuer
func NewIssuer(tokens TokenService, blacklist TokenBlacklist, repo RepositoryManager, opts Config) *Issuer {
	sessionTTL := SessionTokenDuration
	if opts != nil && opts.GetSessionDuration() > 0 {
		sessionTTL = time.Duration(opts.GetSessionDuration()) * time.Hour
	}

	resetTTL := ResetTokenDuration
	if opts != nil && opts.GetResetTokenDuration() > 0 {
		resetTTL = time.Duration(opts.GetResetTokenDuration()) * time.Hour
	}

	return &Issuer{
		tokens:        tokens,
		blacklist:     blacklist,
		repo:          repo,
		sessionTTL:    sessionTTL,
		resetTokenTTL: resetTTL,
		logger:        defLogger{},
	}
}

func (i *Issuer) WithLogger(logger Logger) *Issuer {
	if logger != nil {
		i.logger = logger
	}
	return i
}

// IssueSession mints a long-lived session token with the identity id as
// subject. Nothing is persisted.
func (i *Issuer) IssueSession(ctx context.Context, identityID string) (string, error) {
	token, _, err := i.tokens.Mint(identityID, PurposeSession, i.sessionTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}

// IssueResetToken mints a short-lived reset token and stores it, with its
// expiry, on the identity record. Issuing again overwrites the previous
// token, which invalidates it.
func (i *Issuer) IssueResetToken(ctx context.Context, identityID string) (string, error) {
	id, err := uuid.Parse(identityID)
	if err != nil {
		return "", goerrors.New("invalid identity id", goerrors.CategoryBadInput)
	}

	token, expiresAt, err := i.tokens.Mint(identityID, PurposePasswordReset, i.resetTokenTTL)
	if err != nil {
		return "", err
	}

	if err := i.repo.Users().SetResetToken(ctx, id, token, expiresAt); err != nil {
		return "", WrapPersistence(err, "failed to store reset token")
	}

	return token, nil
}

// ConsumeResetToken redeems a reset token exactly once: the signature must
// verify, the token must equal the one stored on the identity, and the
// stored expiry must be in the future. On success the password is replaced
// and the stored token cleared, so a replay fails even while the token's
// own signature is still valid.
func (i *Issuer) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	claims, err := i.tokens.Validate(token)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	if claims.Purpose() != PurposePasswordReset {
		return ErrInvalidOrExpiredToken
	}

	subject, err := uuid.Parse(claims.Subject())
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	err = i.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := i.repo.Users().FindByIDTx(ctx, tx, subject)
		if err != nil {
			if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
				return ErrInvalidOrExpiredToken
			}
			return WrapPersistence(err, "failed to load identity for password reset")
		}

		if subtle.ConstantTimeCompare([]byte(user.ResetToken), []byte(token)) != 1 {
			return ErrInvalidOrExpiredToken
		}

		if !user.HasActiveResetToken(time.Now()) {
			return ErrInvalidOrExpiredToken
		}

		if err := i.repo.Users().ResetPasswordTx(ctx, tx, subject, passwordHash); err != nil {
			return WrapPersistence(err, "failed to update password")
		}

		return nil
	})
	if err != nil {
		return err
	}

	i.logger.Info("password reset consumed", "user_id", subject.String())

	return nil
}

// SignOut revokes the presented token by blacklisting it for the maximum
// token lifetime. Revoking the same token twice is a no-op.
func (i *Issuer) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingCredential
	}

	if err := i.blacklist.Revoke(ctx, token); err != nil {
		return WrapPersistence(err, "failed to revoke token")
	}

	return nil
}
