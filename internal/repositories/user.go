package repositories

import (
	"fmt"
	"slices"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User], keyed by username.
//
// Methods only change the in-memory catalog; call [Store.SaveCatalog] to persist.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new [UserRepository] backed by the given store.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create appends a user after validation. Usernames are unique ignoring case.
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	catalog := r.store.Catalog()
	if catalog.FindUser(user.Username) != nil {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateUsername, user.Username)
	}

	catalog.Users = append(catalog.Users, user)
	return nil
}

// Get retrieves a user by username, ignoring case.
func (r *UserRepository) Get(username string) (*models.User, error) {
	user := r.store.Catalog().FindUser(username)
	if user == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	return user, nil
}

// Match returns the first user with the given username, ignoring case, and the exact password.
func (r *UserRepository) Match(username, password string) *models.User {
	return r.store.Catalog().MatchUser(username, password)
}

// Delete removes the user matching username, ignoring case.
func (r *UserRepository) Delete(username string) error {
	if !r.store.Catalog().RemoveUser(username) {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	return nil
}

// List returns all users in insertion order.
func (r *UserRepository) List() []*models.User {
	return slices.Clone(r.store.Catalog().Users)
}

// Save persists the catalog document.
func (r *UserRepository) Save() error {
	return r.store.SaveCatalog()
}
