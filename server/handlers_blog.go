package server

import (
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	blog "github.com/goliatone/go-blog"
)

// PostRequest is the create/update payload for posts
type PostRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Slug       string `json:"slug"`
	CategoryID string `json:"category_id"`
}

func (r PostRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Required),
		validation.Field(&r.Slug, validation.Length(0, 200)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid post payload")
	}
	return nil
}

// CommentRequest is the create payload for comments
type CommentRequest struct {
	Body string `json:"body"`
}

func (r CommentRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid comment payload")
	}
	return nil
}

// CategoryRequest is the create/update payload for categories
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (r CategoryRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Slug, validation.Length(0, 100)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid category payload")
	}
	return nil
}

// ListPosts returns published posts, newest first. Supports author,
// category, limit, and offset query params.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	filter := blog.PostFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}

	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return goerrors.New("invalid author id", goerrors.CategoryBadInput)
		}
		filter.AuthorID = &id
	}

	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return goerrors.New("invalid category id", goerrors.CategoryBadInput)
		}
		filter.CategoryID = &id
	}

	records, err := s.repo.Posts().ListFiltered(c.UserContext(), filter)
	if err != nil {
		return blog.WrapPersistence(err, "unable to list posts")
	}

	return c.JSON(dataBody(records))
}

// ShowPost resolves a post by id or slug
func (s *Server) ShowPost(c *fiber.Ctx) error {
	raw := c.Params("id")

	var record *blog.Post
	var err error

	if id, perr := uuid.Parse(raw); perr == nil {
		record, err = s.repo.Posts().Find(c.UserContext(), id)
	} else {
		record, err = s.repo.Posts().FindBySlug(c.UserContext(), raw)
	}

	if err != nil {
		return notFound(err, "post")
	}

	return c.JSON(dataBody(record))
}

// CreatePost creates a post owned by the authenticated user
func (s *Server) CreatePost(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	authorID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return blog.ErrIdentityNotFound
	}

	payload := PostRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse post payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := &blog.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    payload.Title,
		Slug:     orSlug(payload.Slug, payload.Title),
		Body:     payload.Body,
	}

	if payload.CategoryID != "" {
		categoryID, err := uuid.Parse(payload.CategoryID)
		if err != nil {
			return goerrors.New("invalid category id", goerrors.CategoryBadInput)
		}
		if _, err := s.repo.Categories().Find(c.UserContext(), categoryID); err != nil {
			return notFound(err, "category")
		}
		record.CategoryID = &categoryID
	}

	created, err := s.repo.Posts().Create(c.UserContext(), record)
	if err != nil {
		return blog.WrapPersistence(err, "unable to create post")
	}

	return c.Status(fiber.StatusCreated).JSON(dataBody(created))
}

// UpdatePost edits a post. Only the owner or an admin may edit.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid post id", goerrors.CategoryBadInput)
	}

	record, err := s.repo.Posts().Find(c.UserContext(), id)
	if err != nil {
		return notFound(err, "post")
	}

	if err := s.authorizer.AuthorizeOwnerOrAdmin(c.UserContext(), claims, record.AuthorID); err != nil {
		return err
	}

	payload := PostRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse post payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record.Title = payload.Title
	record.Body = payload.Body
	if payload.Slug != "" {
		record.Slug = slugify(payload.Slug)
	}

	if payload.CategoryID != "" {
		categoryID, err := uuid.Parse(payload.CategoryID)
		if err != nil {
			return goerrors.New("invalid category id", goerrors.CategoryBadInput)
		}
		if _, err := s.repo.Categories().Find(c.UserContext(), categoryID); err != nil {
			return notFound(err, "category")
		}
		record.CategoryID = &categoryID
	}

	updated, err := s.repo.Posts().Update(c.UserContext(), record, repository.UpdateByID(id.String()))
	if err != nil {
		return blog.WrapPersistence(err, "unable to update post")
	}

	return c.JSON(dataBody(updated))
}

// DeletePost removes a post. Only the owner or an admin may delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid post id", goerrors.CategoryBadInput)
	}

	record, err := s.repo.Posts().Find(c.UserContext(), id)
	if err != nil {
		return notFound(err, "post")
	}

	if err := s.authorizer.AuthorizeOwnerOrAdmin(c.UserContext(), claims, record.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Posts().Remove(c.UserContext(), id); err != nil {
		return blog.WrapPersistence(err, "unable to delete post")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListComments returns the comments on a post, oldest first
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid post id", goerrors.CategoryBadInput)
	}

	if _, err := s.repo.Posts().Find(c.UserContext(), postID); err != nil {
		return notFound(err, "post")
	}

	records, err := s.repo.Comments().ListByPost(c.UserContext(), postID)
	if err != nil {
		return blog.WrapPersistence(err, "unable to list comments")
	}

	return c.JSON(dataBody(records))
}

// CreateComment adds a comment to a post, owned by the authenticated user
func (s *Server) CreateComment(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	authorID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return blog.ErrIdentityNotFound
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid post id", goerrors.CategoryBadInput)
	}

	if _, err := s.repo.Posts().Find(c.UserContext(), postID); err != nil {
		return notFound(err, "post")
	}

	payload := CommentRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse comment payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := &blog.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Body:     payload.Body,
	}

	created, err := s.repo.Comments().Create(c.UserContext(), record)
	if err != nil {
		return blog.WrapPersistence(err, "unable to create comment")
	}

	return c.Status(fiber.StatusCreated).JSON(dataBody(created))
}

// UpdateComment edits a comment body. Only the owner or an admin may edit.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid comment id", goerrors.CategoryBadInput)
	}

	record, err := s.repo.Comments().Find(c.UserContext(), id)
	if err != nil {
		return notFound(err, "comment")
	}

	if err := s.authorizer.AuthorizeOwnerOrAdmin(c.UserContext(), claims, record.AuthorID); err != nil {
		return err
	}

	payload := CommentRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse comment payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record.Body = payload.Body

	updated, err := s.repo.Comments().Update(c.UserContext(), record, repository.UpdateByID(id.String()))
	if err != nil {
		return blog.WrapPersistence(err, "unable to update comment")
	}

	return c.JSON(dataBody(updated))
}

// DeleteComment removes a comment. Only the owner or an admin may delete.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid comment id", goerrors.CategoryBadInput)
	}

	record, err := s.repo.Comments().Find(c.UserContext(), id)
	if err != nil {
		return notFound(err, "comment")
	}

	if err := s.authorizer.AuthorizeOwnerOrAdmin(c.UserContext(), claims, record.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Comments().Remove(c.UserContext(), id); err != nil {
		return blog.WrapPersistence(err, "unable to delete comment")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories returns every category, sorted by name
func (s *Server) ListCategories(c *fiber.Ctx) error {
	records, err := s.repo.Categories().ListAll(c.UserContext())
	if err != nil {
		return blog.WrapPersistence(err, "unable to list categories")
	}
	return c.JSON(dataBody(records))
}

// CreateCategory creates a category. Admin only.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	if err := s.authorizer.AuthorizeAdmin(c.UserContext(), claims); err != nil {
		return err
	}

	payload := CategoryRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse category payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := &blog.Category{
		ID:          uuid.New(),
		Name:        payload.Name,
		Slug:        orSlug(payload.Slug, payload.Name),
		Description: payload.Description,
	}

	created, err := s.repo.Categories().Create(c.UserContext(), record)
	if err != nil {
		return blog.WrapPersistence(err, "unable to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(dataBody(created))
}

// UpdateCategory edits a category. Admin only.
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	if err := s.authorizer.AuthorizeAdmin(c.UserContext(), claims); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid category id", goerrors.CategoryBadInput)
	}

	record, err := s.repo.Categories().Find(c.UserContext(), id)
	if err != nil {
		return notFound(err, "category")
	}

	payload := CategoryRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse category payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record.Name = payload.Name
	record.Description = payload.Description
	if payload.Slug != "" {
		record.Slug = slugify(payload.Slug)
	}

	updated, err := s.repo.Categories().Update(c.UserContext(), record, repository.UpdateByID(id.String()))
	if err != nil {
		return blog.WrapPersistence(err, "unable to update category")
	}

	return c.JSON(dataBody(updated))
}

// DeleteCategory removes a category. Admin only. Posts keep their
// category_id; readers treat a dangling reference as uncategorized.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	if err := s.authorizer.AuthorizeAdmin(c.UserContext(), claims); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid category id", goerrors.CategoryBadInput)
	}

	if _, err := s.repo.Categories().Find(c.UserContext(), id); err != nil {
		return notFound(err, "category")
	}

	if err := s.repo.Categories().Remove(c.UserContext(), id); err != nil {
		return blog.WrapPersistence(err, "unable to delete category")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func orSlug(slug, fallback string) string {
	if slug != "" {
		return slugify(slug)
	}
	return slugify(fallback)
}

// slugify lowercases and collapses anything non alphanumeric to a single
// dash
func slugify(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
