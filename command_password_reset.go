package blog

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
}

func (m InitializePasswordResetMessage) Type() string { return "user.password_reset" }

func (m InitializePasswordResetMessage) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}
	return nil
}

// InitializePasswordResetHandler issues a reset token for the account
// behind an email address. Whether the address exists is not observable
// from the outside: the handler reports success either way and only sends
// the notification when an account was found.
type InitializePasswordResetHandler struct {
	repo   RepositoryManager
	issuer SessionIssuer
	logger Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, issuer SessionIssuer) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:   repo,
		issuer: issuer,
		logger: defLogger{},
	}
}

func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByIdentifier(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			h.logger.Info("password reset requested for unknown email")
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := h.issuer.IssueResetToken(ctx, user.ID.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue reset token")
	}

	go func() {
		// TODO: we need to handle emails...
		printEmailNotification(user.Email, token)
	}()

	return nil
}

type FinalizePasswordResetMessage struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (m FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

func (m FinalizePasswordResetMessage) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Token, validation.Required),
		validation.Field(&m.Password, validation.Required, validation.Length(8, 128)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}
	return nil
}

// FinalizePasswordResetHandler redeems a reset token and sets the new
// password. Consumption is single-use; a replay fails with
// ErrInvalidOrExpiredToken.
type FinalizePasswordResetHandler struct {
	issuer SessionIssuer
	logger Logger
}

func NewFinalizePasswordResetHandler(issuer SessionIssuer) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		issuer: issuer,
		logger: defLogger{},
	}
}

func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	return h.issuer.ConsumeResetToken(ctx, event.Token, event.Password)
}

func printEmailNotification(email, token string) {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", email)
	fmt.Printf("link: /auth/password-reset/confirm?token=%s\n", token)
}
