package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"userdir/internal/models"
)

// InMemoryUserRepository is an in-memory implementation of UserRepository.
// It enforces username uniqueness the way the database unique index does.
type InMemoryUserRepository struct {
	users      map[uint]models.User
	byUsername map[string]uint
	nextID     uint
	mu         sync.RWMutex

	// txMu serializes Transaction callers; mu guards the maps.
	txMu sync.Mutex
}

// NewInMemoryUserRepository creates a new instance of InMemoryUserRepository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:      make(map[uint]models.User),
		byUsername: make(map[string]uint),
		nextID:     1,
	}
}

// GetAll returns all users ordered by ID.
func (r *InMemoryUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, cloneUser(u))
	}
	sort.Slice(userList, func(i, j int) bool { return userList[i].ID < userList[j].ID })
	return userList, nil
}

// GetByID returns a user by their ID.
func (r *InMemoryUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrUserNotFound)
	}
	user = cloneUser(user)
	return &user, nil
}

// GetByUsername returns a user by their username.
func (r *InMemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, fmt.Errorf("user with username %s: %w", username, ErrUserNotFound)
	}
	user := cloneUser(r.users[id])
	return &user, nil
}

// Create adds a new user and assigns its ID.
func (r *InMemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return fmt.Errorf("failed to create user %s: %w", user.Username, ErrDuplicateUsername)
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = cloneUser(*user)
	r.byUsername[user.Username] = user.ID
	return nil
}

// Update modifies the mutable fields of an existing user.
func (r *InMemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %d not updated: %w", user.ID, ErrUserNotFound)
	}
	if owner, taken := r.byUsername[user.Username]; taken && owner != user.ID {
		return fmt.Errorf("failed to update user %d: %w", user.ID, ErrDuplicateUsername)
	}

	delete(r.byUsername, stored.Username)
	stored.Username = user.Username
	stored.Status = user.Status
	stored.Birthday = user.Birthday
	r.users[user.ID] = cloneUser(stored)
	r.byUsername[stored.Username] = user.ID
	return nil
}

// Transaction runs fn while holding the transaction lock. Writes made by fn
// before a failure are not undone; the user service only writes as its last step.
func (r *InMemoryUserRepository) Transaction(_ context.Context, fn func(repo UserRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

func cloneUser(u models.User) models.User {
	if u.Birthday != nil {
		b := *u.Birthday
		u.Birthday = &b
	}
	return u
}
