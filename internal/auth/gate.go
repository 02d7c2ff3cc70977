package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

// Rejection reasons reported to the recorder.
const (
	ReasonMissingHeader = "missing_header"
	ReasonInvalid       = "invalid"
	ReasonExpired       = "expired"
	ReasonWrongKind     = "wrong_kind"
	ReasonRevoked       = "revoked"
	ReasonUnknownUser   = "unknown_user"
	ReasonForbidden     = "forbidden"
	ReasonInactive      = "inactive"
)

// Verifier verifies raw bearer tokens.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// RevocationChecker answers whether a token id was revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserFinder loads the current user for role checks.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RejectionRecorder receives one call per rejected request.
type RejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// Gate admits or rejects requests based on their bearer token.
type Gate struct {
	verifier Verifier
	revoked  RevocationChecker
	users    UserFinder
	recorder RejectionRecorder
	logger   *zap.Logger
}

// NewGate constructs a Gate. recorder may be nil.
func NewGate(verifier Verifier, revoked RevocationChecker, users UserFinder, recorder RejectionRecorder, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{verifier: verifier, revoked: revoked, users: users, recorder: recorder, logger: logger}
}

// Authenticate extracts the bearer token from header and checks it
// against the required kind and the revocation registry.
func (g *Gate) Authenticate(ctx context.Context, header string, required TokenKind) (*Claims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, g.reject(ReasonMissingHeader, appErrors.ErrUnauthenticated)
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			if required == Refresh {
				return nil, g.reject(ReasonExpired, appErrors.ErrRefreshExpired)
			}
			return nil, g.reject(ReasonExpired, appErrors.ErrTokenExpired)
		}
		return nil, g.reject(ReasonInvalid, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message))
	}

	if claims.Kind() != required {
		msg := "please provide an access token"
		if required == Refresh {
			msg = "please provide a refresh token"
		}
		return nil, g.reject(ReasonWrongKind, appErrors.Clone(appErrors.ErrWrongTokenKind, msg))
	}

	revoked, err := g.revoked.IsRevoked(ctx, claims.JTI())
	if err != nil {
		g.logger.Error("revocation lookup failed", zap.String("jti", claims.JTI()), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check token status")
	}
	if revoked {
		return nil, g.reject(ReasonRevoked, appErrors.ErrTokenRevoked)
	}

	return claims, nil
}

// Authorize re-fetches the token's user and checks its role.
func (g *Gate) Authorize(ctx context.Context, claims *Claims, allowed ...models.UserRole) (*models.User, error) {
	user, err := g.users.FindByID(ctx, claims.User.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, g.reject(ReasonUnknownUser, appErrors.Clone(appErrors.ErrUnauthenticated, "user no longer exists"))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.IsActive {
		return nil, g.reject(ReasonInactive, appErrors.Clone(appErrors.ErrForbidden, "account is deactivated"))
	}
	if !RoleAllowed(user.Role, allowed...) {
		return nil, g.reject(ReasonForbidden, appErrors.ErrForbidden)
	}
	return user, nil
}

// RoleAllowed reports whether role is in allowed.
func RoleAllowed(role models.UserRole, allowed ...models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func (g *Gate) reject(reason string, err *appErrors.Error) error {
	if g.recorder != nil {
		g.recorder.RecordAuthRejection(reason)
	}
	return err
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
