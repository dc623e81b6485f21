package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"canteen-counter/internal/auth"
	"canteen-counter/internal/model"
	"canteen-counter/internal/repository"
)

// authService implements AuthService.
type authService struct {
	staffRepo repository.StaffRepository
	issuer    *auth.TokenIssuer
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(staffRepo repository.StaffRepository, issuer *auth.TokenIssuer, logger zerolog.Logger) AuthService {
	return &authService{
		staffRepo: staffRepo,
		issuer:    issuer,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Login verifies credentials against the staff table and returns a signed
// capability token. Unknown emails and wrong passwords both map to the
// same error.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up staff user")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("staff logged in")
	return &model.LoginResponse{Token: token}, nil
}
