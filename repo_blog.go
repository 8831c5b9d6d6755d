package blog

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostFilter narrows post listings
type PostFilter struct {
	AuthorID   *uuid.UUID
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}

type Posts interface {
	repository.Repository[*Post]

	Find(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	ListFiltered(ctx context.Context, filter PostFilter) ([]*Post, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &posts{Repository: repo, db: db}
}

func (r *posts) Find(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Category").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *posts) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Category").
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"slug": slug})
		}
		return nil, err
	}
	return record, nil
}

func (r *posts) ListFiltered(ctx context.Context, filter PostFilter) ([]*Post, error) {
	records := []*Post{}

	q := r.db.NewSelect().
		Model(&records).
		Relation("Category").
		Order("pst.created_at DESC")

	if filter.AuthorID != nil {
		q.Where("?TableAlias.author_id = ?", *filter.AuthorID)
	}

	if filter.CategoryID != nil {
		q.Where("?TableAlias.category_id = ?", *filter.CategoryID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	q.Limit(limit)

	if filter.Offset > 0 {
		q.Offset(filter.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *posts) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}

type Comments interface {
	repository.Repository[*Comment]

	Find(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type comments struct {
	repository.Repository[*Comment]
	db *bun.DB
}

var _ Comments = (*comments)(nil)

func NewCommentsRepository(db *bun.DB) Comments {
	repo := repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &comments{Repository: repo, db: db}
}

func (r *comments) Find(ctx context.Context, id uuid.UUID) (*Comment, error) {
	record := &Comment{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *comments) ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	records := []*Comment{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.post_id = ?", postID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *comments) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Comment)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}

type Categories interface {
	repository.Repository[*Category]

	Find(ctx context.Context, id uuid.UUID) (*Category, error)
	ListAll(ctx context.Context) ([]*Category, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type categories struct {
	repository.Repository[*Category]
	db *bun.DB
}

var _ Categories = (*categories)(nil)

func NewCategoriesRepository(db *bun.DB) Categories {
	repo := repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Category, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &categories{Repository: repo, db: db}
}

func (r *categories) Find(ctx context.Context, id uuid.UUID) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *categories) ListAll(ctx context.Context) ([]*Category, error) {
	records := []*Category{}
	err := r.db.NewSelect().
		Model(&records).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *categories) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Category)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}
