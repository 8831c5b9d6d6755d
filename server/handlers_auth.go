package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	blog "github.com/goliatone/go-blog"
)

// LoginRequest payload
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (r LoginRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}
	return nil
}

// Register creates an account and immediately signs it in
func (s *Server) Register(c *fiber.Ctx) error {
	payload := blog.RegisterUserMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse registration payload")
	}

	user, err := s.register.Execute(c.UserContext(), payload)
	if err != nil {
		return err
	}

	token, err := s.issuer.IssueSession(c.UserContext(), user.ID.String())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dataBody(fiber.Map{
		"token": token,
		"user":  user,
	}))
}

// Login exchanges credentials for a session token
func (s *Server) Login(c *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse login payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := s.auth.Login(c.UserContext(), payload.Identifier, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(dataBody(fiber.Map{"token": token}))
}

// SignOut revokes the presented token. The token does not need to pass
// validation to be revoked; blacklisting an invalid string is harmless and
// duplicate revocation is idempotent.
func (s *Server) SignOut(c *fiber.Ctx) error {
	raw, err := blog.ExtractBearerToken(c.Get(fiber.HeaderAuthorization), s.authScheme)
	if err != nil {
		return err
	}

	if err := s.issuer.SignOut(c.UserContext(), raw); err != nil {
		return err
	}

	return c.JSON(dataBody(fiber.Map{"status": "signed_out"}))
}

// PasswordResetInit issues a reset token for the given email. The response
// is the same whether or not the account exists.
func (s *Server) PasswordResetInit(c *fiber.Ctx) error {
	payload := blog.InitializePasswordResetMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse password reset payload")
	}

	if err := s.resetInit.Execute(c.UserContext(), payload); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(dataBody(fiber.Map{"status": "reset_requested"}))
}

// PasswordResetConfirm consumes a reset token and sets the new password
func (s *Server) PasswordResetConfirm(c *fiber.Ctx) error {
	payload := blog.FinalizePasswordResetMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse password reset payload")
	}

	if err := s.resetFinal.Execute(c.UserContext(), payload); err != nil {
		return err
	}

	return c.JSON(dataBody(fiber.Map{"status": "password_changed"}))
}

// Me returns the account behind the presented token
func (s *Server) Me(c *fiber.Ctx) error {
	claims, err := s.claims(c)
	if err != nil {
		return err
	}

	subject, err := uuid.Parse(claims.Subject())
	if err != nil {
		return blog.ErrIdentityNotFound
	}

	user, err := s.repo.Users().FindByID(c.UserContext(), subject)
	if err != nil {
		return notFound(err, "user")
	}

	return c.JSON(dataBody(user))
}
