package blog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// revokedTokens is the TokenBlacklist implementation. A single revoke write
// and a single lookup are each atomic at the row level; that is the only
// guarantee the auth core relies on.
type revokedTokens struct {
	db        *bun.DB
	retention time.Duration
}

var _ TokenBlacklist = (*revokedTokens)(nil)

// NewRevokedTokensRepository returns a blacklist store whose entries are
// retained for the maximum token lifetime
func NewRevokedTokensRepository(db *bun.DB) TokenBlacklist {
	return &revokedTokens{
		db:        db,
		retention: SessionTokenDuration,
	}
}

// Revoke persists (token, now + retention). The upsert makes duplicate
// revocation of the same token idempotent.
func (r *revokedTokens) Revoke(ctx context.Context, token string) error {
	entry := &RevokedToken{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: time.Now().Add(r.retention),
	}

	_, err := r.db.NewInsert().
		Model(entry).
		On("CONFLICT (token) DO UPDATE").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)

	return err
}

// IsRevoked performs an exact-string lookup. It deliberately does not
// filter by the entry's expiry: a stale entry that was never purged keeps
// rejecting its token, which errs on the safe side when cleanup lags.
func (r *revokedTokens) IsRevoked(ctx context.Context, token string) (bool, error) {
	return r.db.NewSelect().
		Model((*RevokedToken)(nil)).
		Where("?TableAlias.token = ?", token).
		Exists(ctx)
}

// PurgeExpired deletes entries whose retention window has passed. It is
// never called on the authentication path.
func (r *revokedTokens) PurgeExpired(ctx context.Context) (int, error) {
	res, err := r.db.NewDelete().
		Model((*RevokedToken)(nil)).
		Where("?TableAlias.expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}
