package services

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/repositories"
)

// UserService implements the privileged account operations. Every mutation is persisted.
type UserService struct {
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewUserService creates a new [UserService].
func NewUserService(users *repositories.UserRepository, logger *log.Logger) *UserService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &UserService{users: users, logger: logger}
}

// CreateUser adds an account with the given role and saves the catalog.
func (s *UserService) CreateUser(username, password string, role models.Role) (*models.User, error) {
	user := models.NewUser(username, password, role)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if err := s.users.Save(); err != nil {
		return user, fmt.Errorf("user %s created but not saved: %w", user.Username, err)
	}

	s.logger.Info("user created", "username", user.Username, "role", user.Role)
	return user, nil
}

// DeleteUser removes the account matching username ignoring case and saves the catalog.
func (s *UserService) DeleteUser(username string) error {
	if err := s.users.Delete(username); err != nil {
		return err
	}

	if err := s.users.Save(); err != nil {
		return fmt.Errorf("user %s deleted but not saved: %w", username, err)
	}

	s.logger.Info("user deleted", "username", username)
	return nil
}

// ListUsers returns every account in catalog order.
func (s *UserService) ListUsers() []*models.User {
	return s.users.List()
}
