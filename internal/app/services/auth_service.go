package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/config"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
	"github.com/qpshare/qpshare/internal/pkg/auth"
	"github.com/qpshare/qpshare/internal/pkg/logger"
	"github.com/qpshare/qpshare/internal/pkg/validation"
)

// fullNameMaxLength bounds the display name column
const fullNameMaxLength = 120

// userStore is the slice of the user repository auth needs
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService issues uploader access tokens and admin session tokens
type AuthService struct {
	users  userStore
	jwt    *auth.JWTService
	admins []config.AdminCredential
}

// NewAuthService creates a new AuthService
func NewAuthService(users userStore, jwt *auth.JWTService, admins []config.AdminCredential) *AuthService {
	return &AuthService{users: users, jwt: jwt, admins: admins}
}

// Register creates an uploader account and issues its first access token
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.NewStringValidation(email).WithPattern(validation.CompiledPatterns.Email).Validate() {
		return nil, apperrors.NewValidationError("invalid email address")
	}
	if !validation.NewStringValidation(req.Password).WithMinLength(validation.PasswordMinLength).Validate() {
		return nil, apperrors.NewValidationError("password is too short")
	}
	fullName := strings.TrimSpace(req.FullName)
	if !validation.NewStringValidation(fullName).WithMaxLength(fullNameMaxLength).Validate() {
		return nil, apperrors.NewValidationError("full name must not be empty or too long")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userId", user.ID).Msg("Uploader registered")
	return s.tokenFor(user)
}

// Login checks uploader credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.tokenFor(user)
}

// AdminLogin checks the fixed allow-list and issues a signed admin session
// token. The token travels in the X-Admin-Auth header on every admin call.
func (s *AuthService) AdminLogin(username, password string) (string, error) {
	for _, cred := range s.admins {
		userOK := subtle.ConstantTimeCompare([]byte(cred.Username), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) == 1
		if userOK && passOK {
			return s.jwt.GenerateAdminToken(username)
		}
	}
	return "", apperrors.ErrInvalidCredentials
}

func (s *AuthService) tokenFor(user *models.User) (*dto.TokenResponse, error) {
	token, expiresIn, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
