package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	lastFilter models.UserFilter
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastFilter = filter
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Role = role
	return nil
}

func newUserFixture() (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "ada", FirstName: "Ada", LastName: "Lovelace", Role: models.RoleUser},
		"a1": {ID: "a1", Username: "root", Role: models.RoleAdmin},
	}}
	return NewUserService(repo, nil, nil), repo
}

func TestUserServiceList(t *testing.T) {
	svc, repo := newUserFixture()

	users, page, err := svc.List(context.Background(), models.UserFilter{PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 5, repo.lastFilter.PageSize)

	bogus := models.UserRole("superuser")
	_, _, err = svc.List(context.Background(), models.UserFilter{Role: &bogus})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceUpdateProfile(t *testing.T) {
	svc, repo := newUserFixture()
	name := "Augusta"

	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, "Augusta", repo.users["u1"].FirstName)

	_, err = svc.UpdateProfile(context.Background(), "ghost", models.UpdateProfileRequest{FirstName: &name})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceUpdateRole(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	user, err := svc.UpdateRole(ctx, "a1", "u1", models.UpdateRoleRequest{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.UpdateRole(ctx, "a1", "a1", models.UpdateRoleRequest{Role: models.RoleUser})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.UpdateRole(ctx, "a1", "ghost", models.UpdateRoleRequest{Role: models.RoleUser})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.UpdateRole(ctx, "a1", "u1", models.UpdateRoleRequest{Role: "root"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
