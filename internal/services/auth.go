package services

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/repositories"
	"github.com/desertthunder/spoolr/internal/shared"
)

// AuthService verifies credentials against the catalog's users.
type AuthService struct {
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewAuthService creates a new [AuthService].
func NewAuthService(users *repositories.UserRepository, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AuthService{users: users, logger: logger}
}

// Login returns the first user whose username matches ignoring case and whose password matches exactly.
//
// Usernames may collide when the default administrator was appended next to an existing
// "Admin", so the password takes part in the match.
func (s *AuthService) Login(username, password string) (*models.User, error) {
	user := s.users.Match(username, password)
	if user == nil {
		s.logger.Warn("login failed", "username", username)
		return nil, shared.ErrAuthFailed
	}

	s.logger.Debug("login succeeded", "username", user.Username, "role", user.Role)
	return user, nil
}

// Register adds a regular user. The catalog is not saved.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	user := models.NewUser(username, password, models.RoleUser)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", user.Username)
	return user, nil
}

// Authorize logs in and requires the account to be an administrator.
func (s *AuthService) Authorize(username, password string) (*models.User, error) {
	user, err := s.Login(username, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%w: %s is not an admin", shared.ErrPermissionDenied, user.Username)
	}
	return user, nil
}
