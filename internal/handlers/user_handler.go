package handlers

import (
	"context"
	"fmt"
	"strconv"

	"userdir/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserDirectory is the part of services.UserService the handler needs.
type UserDirectory interface {
	List(ctx context.Context) ([]models.User, error)
	Register(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetProfile(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, patch models.UserPatch) error
}

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	users    UserDirectory
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserDirectory) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user routes. loginLimiter guards both login
// paths and may be nil.
func (h *UserHandler) RegisterRoutes(router fiber.Router, loginLimiter fiber.Handler) {
	login := []fiber.Handler{h.HandleLogin}
	registered := []fiber.Handler{h.HandleRegisteredLogin}
	if loginLimiter != nil {
		login = append([]fiber.Handler{loginLimiter}, login...)
		registered = append([]fiber.Handler{loginLimiter}, registered...)
	}

	router.Get("/users", h.HandleList)
	router.Post("/users", h.HandleRegister)
	router.Post("/login", login...)
	router.Post("/registered", registered...)
	router.Get("/users/:id", h.HandleGet)
	router.Put("/users/:id", h.HandleUpdate)
}

// HandleList returns every user.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(NewUserResponses(users))
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(NewUserResponse(user))
}

// HandleLogin authenticates a user and answers 200.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	return h.login(c, fiber.StatusOK)
}

// HandleRegisteredLogin is the same login under the path older clients use.
// It answers 202.
func (h *UserHandler) HandleRegisteredLogin(c *fiber.Ctx) error {
	return h.login(c, fiber.StatusAccepted)
}

func (h *UserHandler) login(c *fiber.Ctx, status int) error {
	var req CredentialsRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(NewUserResponse(user))
}

// HandleGet returns a single user profile.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(NewUserResponse(user))
}

// HandleUpdate applies a partial profile update.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req UserPutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	patch, err := req.ToPatch()
	if err != nil {
		return err
	}
	if err := h.users.UpdateProfile(c.UserContext(), id, patch); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseUserID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid user id %q", raw))
	}
	return uint(id), nil
}

// parseAndValidate decodes the body into req and validates it.
func (h *UserHandler) parseAndValidate(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &ValidationError{Fields: errorMessages}
	}
	return nil
}
