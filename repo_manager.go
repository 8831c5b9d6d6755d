package blog

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories. It is constructed once at
// process start with an open connection pool and injected into every
// component that needs persistence.
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	RevokedTokens() TokenBlacklist
	Posts() Posts
	Comments() Comments
	Categories() Categories
}

type mngr struct {
	db            *bun.DB
	users         Users
	revokedTokens TokenBlacklist
	posts         Posts
	comments      Comments
	categories    Categories
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:            db,
		users:         NewUsersRepository(db),
		revokedTokens: NewRevokedTokensRepository(db),
		posts:         NewPostsRepository(db),
		comments:      NewCommentsRepository(db),
		categories:    NewCategoriesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.revokedTokens == nil {
		return errors.New("repository revokedTokens should be initialized")
	}

	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	if m.comments == nil {
		return errors.New("repository comments should be initialized")
	}

	if m.categories == nil {
		return errors.New("repository categories should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) RevokedTokens() TokenBlacklist {
	return m.revokedTokens
}

func (m mngr) Posts() Posts {
	return m.posts
}

func (m mngr) Comments() Comments {
	return m.comments
}

func (m mngr) Categories() Categories {
	return m.categories
}
