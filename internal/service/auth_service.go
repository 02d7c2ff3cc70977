package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/auth"
	"github.com/noah-isme/bookly-api/internal/models"
	"github.com/noah-isme/bookly-api/internal/repository"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type secretHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, secret, hash string) (bool, error)
}

type tokenIssuer interface {
	Issue(identity models.UserSnapshot, validity time.Duration, kind auth.TokenKind) (string, *auth.Claims, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// AuthConfig defines token lifetimes.
type AuthConfig struct {
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	hasher    secretHasher
	tokens    tokenIssuer
	revoker   tokenRevoker
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, hasher secretHasher, tokens tokenIssuer, revoker tokenRevoker, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, revoker: revoker, metrics: metrics, validator: validate, logger: logger, config: config}
}

// Signup registers a new account with the default role.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		s.metrics.RecordAuthEvent("signup", false)
		return nil, appErrors.ErrDuplicateEmail
	}

	start := time.Now()
	hash, err := s.hasher.Hash(ctx, req.Password)
	s.metrics.ObserveHash("hash", time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrSecretTooLong) {
			return nil, appErrors.ErrSecretTooLong
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
		Role:         models.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.ErrDuplicateEmail
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.metrics.RecordAuthEvent("signup", true)
	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return user, nil
}

// Login authenticates a user and returns an access and refresh token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordAuthEvent("login", false)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	start := time.Now()
	ok, err := s.hasher.Verify(ctx, req.Password, user.PasswordHash)
	s.metrics.ObserveHash("verify", time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrSecretTooLong) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify password")
	}
	if !ok {
		s.metrics.RecordAuthEvent("login", false)
		return nil, appErrors.ErrInvalidCredentials
	}

	identity := user.Snapshot()
	accessToken, _, err := s.tokens.Issue(identity, s.config.AccessTokenExpiry, auth.Access)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	refreshToken, _, err := s.tokens.Issue(identity, s.config.RefreshTokenExpiry, auth.Refresh)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	s.metrics.RecordAuthEvent("login", true)
	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Message:      "Login successful",
		User:         identity,
	}, nil
}

// Refresh issues a new access token from a verified refresh token's claims.
func (s *AuthService) Refresh(ctx context.Context, claims *auth.Claims) (*models.RefreshResponse, error) {
	accessToken, _, err := s.tokens.Issue(claims.User, s.config.AccessTokenExpiry, auth.Access)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.metrics.RecordAuthEvent("refresh", true)
	return &models.RefreshResponse{AccessToken: accessToken}, nil
}

// Logout revokes the presented access token. Repeating it is harmless.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revoker.Revoke(ctx, claims.JTI(), claims.Expiry()); err != nil {
		s.metrics.RecordAuthEvent("logout", false)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke token")
	}
	s.metrics.RecordAuthEvent("logout", true)
	s.logger.Info("token revoked", zap.String("user_id", claims.User.ID), zap.String("jti", claims.JTI()))
	return nil
}

// Me returns the account behind the token.
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, claims.User.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}
