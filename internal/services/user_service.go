package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"userdir/internal/common"
	"userdir/internal/logging"
	"userdir/internal/models"
	"userdir/internal/repositories"

	"github.com/google/uuid"
)

const (
	msgUsernameNotUnique = "The provided username is not unique. Therefore, the user could not be registered!"
	msgUserDoesNotExist  = "The user with the provided username does not exist!"
	msgWrongPassword     = "The provided password is wrong!"
	msgUserIDNotFound    = "User with id %d was not found!"
)

// EventPublisher publishes user lifecycle events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// UserService owns the registration, login and profile rules for users.
type UserService struct {
	repo      repositories.UserRepository
	publisher EventPublisher
	log       logging.Logger
	now       func() time.Time
}

// NewUserService creates a new UserService. publisher may be nil, in which
// case no events are published.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, log logging.Logger) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
		log:       log.With("component", "user_service"),
		now:       time.Now,
	}
}

// List returns every user in store order.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

// Register creates a user with a fresh token, status ONLINE and the current
// time as creation date.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		Password:     password,
		Token:        uuid.NewString(),
		Status:       models.StatusOnline,
		CreationDate: s.now(),
	}

	err := s.repo.Transaction(ctx, func(repo repositories.UserRepository) error {
		existing, err := repo.GetByUsername(ctx, username)
		if err == nil && existing != nil {
			return common.Conflict(msgUsernameNotUnique)
		}
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}

		if err := repo.Create(ctx, user); err != nil {
			// Lost a race against a concurrent registration.
			if errors.Is(err, repositories.ErrDuplicateUsername) {
				return common.Conflict(msgUsernameNotUnique)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrConflict) {
			err = fmt.Errorf("failed to register user: %w", err)
		}
		return nil, err
	}

	s.log.Debug(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	s.publish(ctx, models.EventUserRegistered, user)
	return user, nil
}

// Authenticate checks the credentials and marks the user ONLINE. The two
// failure cases carry different messages but the same error kind.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user *models.User
	err := s.repo.Transaction(ctx, func(repo repositories.UserRepository) error {
		found, err := repo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return common.Unauthorized(msgUserDoesNotExist)
			}
			return err
		}
		if subtle.ConstantTimeCompare([]byte(found.Password), []byte(password)) != 1 {
			return common.Unauthorized(msgWrongPassword)
		}

		found.Status = models.StatusOnline
		if err := repo.Update(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrUnauthorized) {
			err = fmt.Errorf("failed to authenticate user: %w", err)
		}
		return nil, err
	}

	s.log.Debug(ctx, "user logged in", "user_id", user.ID)
	s.publish(ctx, models.EventUserLoggedIn, user)
	return user, nil
}

// GetProfile returns the user with the given id.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, common.NotFound(msgUserIDNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the set fields of patch to the user with the given id.
// Username uniqueness is not re-checked here; a collision is only reported
// if the store rejects the write.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, patch models.UserPatch) error {
	var user *models.User
	err := s.repo.Transaction(ctx, func(repo repositories.UserRepository) error {
		found, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return common.NotFound(msgUserIDNotFound, id)
			}
			return err
		}

		if err := applyPatch(found, patch); err != nil {
			return err
		}

		if err := repo.Update(ctx, found); err != nil {
			if errors.Is(err, repositories.ErrDuplicateUsername) {
				return common.Conflict("The username %s is already taken!", found.Username)
			}
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		var appErr *common.Error
		if !errors.As(err, &appErr) {
			err = fmt.Errorf("failed to update user profile: %w", err)
		}
		return err
	}

	s.publish(ctx, models.EventUserUpdated, user)
	return nil
}

// applyPatch validates every set field before touching user.
func applyPatch(user *models.User, patch models.UserPatch) error {
	username, setUsername := patch.Username.Get()
	if setUsername && username == "" {
		return common.InvalidArgument("username must not be empty")
	}

	var status models.UserStatus
	raw, setStatus := patch.Status.Get()
	setStatus = setStatus && raw != ""
	if setStatus {
		parsed, err := models.ParseUserStatus(raw)
		if err != nil {
			return err
		}
		status = parsed
	}

	if setUsername {
		user.Username = username
	}
	if birthday, ok := patch.Birthday.Get(); ok {
		user.Birthday = &birthday
	}
	if setStatus {
		user.Status = status
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType string, user *models.User) {
	if s.publisher == nil {
		s.log.Debug(ctx, "event publisher not configured, skipping event", "type", eventType)
		return
	}
	event := models.NewUserEvent(eventType, user, s.now())
	if err := s.publisher.PublishJSON(eventType, event); err != nil {
		s.log.Warn(ctx, "failed to publish user event", "type", eventType, "user_id", user.ID, "error", err)
	}
}
