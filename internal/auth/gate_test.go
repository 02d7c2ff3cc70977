package auth

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

type stubUsers struct {
	users map[string]*models.User
}

func (s *stubUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type countingRecorder struct {
	reasons []string
}

func (r *countingRecorder) RecordAuthRejection(reason string) {
	r.reasons = append(r.reasons, reason)
}

type gateFixture struct {
	clock    *fakeClock
	tokens   *TokenManager
	registry *RevocationRegistry
	users    *stubUsers
	recorder *countingRecorder
	gate     *Gate
}

func newGateFixture() *gateFixture {
	clock := newClock()
	tokens := NewTokenManager("secret", clock.Now)
	registry := NewRevocationRegistry(newMemoryStore(), clock.Now)
	users := &stubUsers{users: map[string]*models.User{
		testIdentity.ID: {ID: testIdentity.ID, Email: testIdentity.Email, Role: models.RoleUser, IsActive: true},
	}}
	recorder := &countingRecorder{}
	return &gateFixture{
		clock:    clock,
		tokens:   tokens,
		registry: registry,
		users:    users,
		recorder: recorder,
		gate:     NewGate(tokens, registry, users, recorder, nil),
	}
}

func (f *gateFixture) issue(t *testing.T, kind TokenKind, validity time.Duration) (string, *Claims) {
	t.Helper()
	token, claims, err := f.tokens.Issue(testIdentity, validity, kind)
	require.NoError(t, err)
	return token, claims
}

func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.Status)
}

func TestGateAdmitsMatchingKind(t *testing.T) {
	f := newGateFixture()
	ctx := context.Background()

	access, _ := f.issue(t, Access, time.Minute)
	claims, err := f.gate.Authenticate(ctx, "Bearer "+access, Access)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.ID, claims.User.ID)

	refresh, _ := f.issue(t, Refresh, time.Hour)
	claims, err = f.gate.Authenticate(ctx, "bearer "+refresh, Refresh)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
}

func TestGateRejectsMissingHeader(t *testing.T) {
	f := newGateFixture()
	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "token"} {
		_, err := f.gate.Authenticate(context.Background(), header, Access)
		assertAppError(t, err, "UNAUTHENTICATED", http.StatusUnauthorized)
	}
	assert.Len(t, f.recorder.reasons, 5)
}

func TestGateRejectsWrongKindBothWays(t *testing.T) {
	f := newGateFixture()
	access, _ := f.issue(t, Access, time.Minute)
	refresh, _ := f.issue(t, Refresh, time.Hour)

	_, err := f.gate.Authenticate(context.Background(), "Bearer "+refresh, Access)
	assertAppError(t, err, "WRONG_TOKEN_KIND", http.StatusBadRequest)

	_, err = f.gate.Authenticate(context.Background(), "Bearer "+access, Refresh)
	assertAppError(t, err, "WRONG_TOKEN_KIND", http.StatusBadRequest)
	assert.Equal(t, []string{ReasonWrongKind, ReasonWrongKind}, f.recorder.reasons)
}

func TestGateRejectsInvalidToken(t *testing.T) {
	f := newGateFixture()
	_, err := f.gate.Authenticate(context.Background(), "Bearer garbage", Access)
	assertAppError(t, err, "INVALID_TOKEN", http.StatusUnauthorized)

	foreign, _, err := NewTokenManager("other", nil).Issue(testIdentity, time.Minute, Access)
	require.NoError(t, err)
	_, err = f.gate.Authenticate(context.Background(), "Bearer "+foreign, Access)
	assertAppError(t, err, "INVALID_TOKEN", http.StatusUnauthorized)
}

func TestGateExpiryStatusDependsOnKind(t *testing.T) {
	f := newGateFixture()
	access, _ := f.issue(t, Access, time.Minute)
	refresh, _ := f.issue(t, Refresh, time.Hour)
	f.clock.Advance(2 * time.Hour)

	_, err := f.gate.Authenticate(context.Background(), "Bearer "+access, Access)
	assertAppError(t, err, "TOKEN_EXPIRED", http.StatusUnauthorized)

	_, err = f.gate.Authenticate(context.Background(), "Bearer "+refresh, Refresh)
	assertAppError(t, err, "TOKEN_EXPIRED", http.StatusForbidden)
}

func TestGateRejectsRevoked(t *testing.T) {
	f := newGateFixture()
	access, claims := f.issue(t, Access, time.Minute)
	require.NoError(t, f.registry.Revoke(context.Background(), claims.JTI(), claims.Expiry()))

	_, err := f.gate.Authenticate(context.Background(), "Bearer "+access, Access)
	assertAppError(t, err, "TOKEN_REVOKED", http.StatusForbidden)
}

func TestGateChecksKindBeforeRevocation(t *testing.T) {
	f := newGateFixture()
	refresh, claims := f.issue(t, Refresh, time.Hour)
	require.NoError(t, f.registry.Revoke(context.Background(), claims.JTI(), claims.Expiry()))

	_, err := f.gate.Authenticate(context.Background(), "Bearer "+refresh, Access)
	assertAppError(t, err, "WRONG_TOKEN_KIND", http.StatusBadRequest)
}

func TestGateAuthorize(t *testing.T) {
	f := newGateFixture()
	_, claims := f.issue(t, Access, time.Minute)

	user, err := f.gate.Authorize(context.Background(), claims, models.RoleUser, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.ID, user.ID)

	_, err = f.gate.Authorize(context.Background(), claims, models.RoleAdmin)
	assertAppError(t, err, "FORBIDDEN", http.StatusForbidden)

	delete(f.users.users, testIdentity.ID)
	_, err = f.gate.Authorize(context.Background(), claims, models.RoleUser)
	assertAppError(t, err, "UNAUTHENTICATED", http.StatusUnauthorized)
}

func TestGateAuthorizeRejectsInactiveUser(t *testing.T) {
	f := newGateFixture()
	_, claims := f.issue(t, Access, time.Minute)
	f.users.users[testIdentity.ID].IsActive = false

	_, err := f.gate.Authorize(context.Background(), claims, models.RoleUser, models.RoleAdmin)
	assertAppError(t, err, "FORBIDDEN", http.StatusForbidden)
	assert.Contains(t, f.recorder.reasons, ReasonInactive)
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, RoleAllowed(models.RoleAdmin, models.RoleUser, models.RoleAdmin))
	assert.False(t, RoleAllowed(models.RoleUser, models.RoleAdmin))
	assert.False(t, RoleAllowed(models.RoleUser))
}
