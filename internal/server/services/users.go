// Package services contains server-side business logic. This file implements
// UserService: registration, login, token verification and user records.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

const (
	msgRegisterFieldsRequired = "Email, password, and username are required"
	msgLoginFieldsRequired    = "Email and password are required"
)

// decoyHash is compared against when the email is unknown, so a failed login
// costs one bcrypt comparison whether or not the account exists.
var decoyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("decoy-password")
	return h
})

// UserService issues and verifies session tokens and manages user records.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates an account and returns a session token for it.
// A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, username string) (string, error) {
	user, err := s.CreateUser(ctx, email, password, username)
	if err != nil {
		return "", err
	}
	return s.generateToken(user.ID)
}

// CreateUser validates input, hashes the password and stores the user.
// Email uniqueness is decided by the database's unique index.
func (s *UserService) CreateUser(ctx context.Context, email, password, username string) (*models.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || password == "" || username == "" {
		return nil, common.NewValidationError(msgRegisterFieldsRequired)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, UserName: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns a session token. Unknown email and
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", common.NewValidationError(msgLoginFieldsRequired)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(password, decoyHash())
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error finding user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	return s.generateToken(user.ID)
}

// VerifyToken resolves a session token to the user id it was issued for.
func (s *UserService) VerifyToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// DeleteUser removes userID on behalf of callerID. Users may only delete
// their own account.
func (s *UserService) DeleteUser(ctx context.Context, callerID, userID string) error {
	if callerID != userID {
		return common.ErrorForbidden
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func (s *UserService) generateToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}
