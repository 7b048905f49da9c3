package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/duccv/employee-api/internal/apperr"
	"github.com/duccv/employee-api/internal/auth"
	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/internal/repository"
	"github.com/duccv/employee-api/pkg/logger"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) (bool, error)
}

type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Signup stores a new user with a bcrypt digest of req.Password.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	log := logger.WithComponent(logger.FromContext(ctx), "auth")

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperr.Validation("password is too long", err)
		}
		return nil, apperr.Internal(err)
	}

	user, err := s.users.Create(ctx, &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: digest,
	})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			log.Info("Signup rejected", zap.String("field", dup.Field))
			return nil, apperr.Validation(dup.Error(), err)
		}
		return nil, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	logger.WithUser(log, user.ID).Info("User registered")
	return user, nil
}

// Login checks the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	log := logger.WithComponent(logger.FromContext(ctx), "auth")

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.NotFound(constant.MsgUserNotFound)
		}
		return "", apperr.Internal(fmt.Errorf("find user: %w", err))
	}

	ok, err := s.hasher.Compare(user.PasswordHash, req.Password)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if !ok {
		logger.WithUser(log, user.ID).Info("Login rejected: password mismatch")
		return "", apperr.InvalidCredentials(constant.MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", apperr.Internal(err)
	}

	logger.WithUser(log, user.ID).Debug("Token issued")
	return token, nil
}
