package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/utils"
)

var (
	errEmailTaken         = apperr.Conflict("This email is already registered. Please sign in instead.")
	errBadCredentials     = apperr.Unauthorized("Incorrect email or password. Please try again.")
	errInvalidRefresh     = apperr.Unauthorized("Invalid or expired refresh token")
	errAccountDeactivated = apperr.Forbidden("This account has been deactivated")
)

// SignUpInput is a registration request.
type SignUpInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            models.Role
}

// AuthResult is a signed-in user together with a fresh token pair.
type AuthResult struct {
	User *models.User `json:"user"`
	utils.TokenPair
	ExpiresIn int `json:"expires_in"`
}

// AuthService registers users and issues, rotates and revokes sessions.
type AuthService struct {
	users  repositories.UserRepository
	tokens repositories.RefreshTokenRepository
	cfg    *config.Config
	now    func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(users repositories.UserRepository, tokens repositories.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg, now: time.Now}
}

// SignUp validates and stores a new user, then signs them in.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	errs := fieldErrors{}
	errs.check(validName(in.Name), "name", "Name must be at least 2 characters")
	errs.check(validEmail(in.Email), "email", "Please enter a valid email address")
	errs.check(validPhone(in.Phone), "phone", "Phone number must have at least 10 digits")
	errs.check(len(in.Password) >= minPasswordLength, "password", "Password must be at least 6 characters")
	errs.check(in.Password == in.ConfirmPassword, "confirm_password", "Passwords do not match")
	errs.check(in.Role.Valid(), "role", "Role must be patient or doctor")
	if err := errs.err(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, errEmailTaken
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    strings.TrimSpace(in.Phone),
		Role:     in.Role,
		IsActive: true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent sign up for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return s.issue(ctx, user)
}

// SignIn checks credentials and returns a new session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, errAccountDeactivated
	}
	return s.issue(ctx, user)
}

// Refresh exchanges a valid refresh token for a new pair and revokes the
// old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, errInvalidRefresh
	}

	stored, err := s.tokens.FindActive(ctx, claims.UserID, refreshToken, s.now())
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidRefresh
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidRefresh
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, errAccountDeactivated
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issue(ctx, user)
}

// SignOut revokes the given refresh token. An empty token is a no-op.
func (s *AuthService) SignOut(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.RevokeToken(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Session returns the profile of the signed-in user.
func (s *AuthService) Session(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Session user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	pair, err := utils.GenerateTokens(user, s.cfg)
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := s.tokens.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		User:      user,
		TokenPair: pair,
		ExpiresIn: s.cfg.JWTExpirationMinutes * 60,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

