package users

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verdantfield/portal/internal/auth"
	"github.com/verdantfield/portal/internal/platform/httpx"
)

type memoryUserRepo struct {
	users map[int64]*auth.User
}

func newMemoryUserRepo(users ...auth.User) *memoryUserRepo {
	repo := &memoryUserRepo{users: make(map[int64]*auth.User)}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
	}
	return repo
}

func (r *memoryUserRepo) List(ctx context.Context, search string, offset, limit int) ([]auth.User, int, error) {
	var matched []auth.User
	needle := strings.ToLower(search)
	for _, u := range r.users {
		haystack := strings.ToLower(u.Name + " " + u.Email + " " + string(u.Role))
		if needle == "" || strings.Contains(haystack, needle) {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].Email < matched[j].Email
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *memoryUserRepo) UpdateRole(ctx context.Context, id int64, role auth.Role) (*auth.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return u, nil
}

func seedUsers() []auth.User {
	return []auth.User{
		{ID: 1, Name: "Alice Moreno", Email: "alice@example.com", Role: auth.RoleAdmin},
		{ID: 2, Name: "Ben Okafor", Email: "ben@example.com", Role: auth.RoleCustomer},
		{ID: 3, Name: "Carla Voss", Email: "carla@example.com", Role: auth.RoleCustomer},
	}
}

func TestListSearchFiltersByNameEmailRole(t *testing.T) {
	svc := NewService(newMemoryUserRepo(seedUsers()...))

	result, err := svc.List(context.Background(), ListUsersInput{Search: "ben"})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	require.Equal(t, "Ben Okafor", result.Users[0].Name)

	result, err = svc.List(context.Background(), ListUsersInput{Search: "customer"})
	require.NoError(t, err)
	require.Len(t, result.Users, 2)
}

func TestListPagination(t *testing.T) {
	svc := NewService(newMemoryUserRepo(seedUsers()...))

	result, err := svc.List(context.Background(), ListUsersInput{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	require.Equal(t, 3, result.Pagination.Total)
	require.Equal(t, 2, result.Pagination.TotalPages)
	require.Equal(t, 2, result.Pagination.Page)
}

func TestListDefaultsPageAndLimit(t *testing.T) {
	svc := NewService(newMemoryUserRepo(seedUsers()...))

	result, err := svc.List(context.Background(), ListUsersInput{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Pagination.Page)
	require.Equal(t, 10, result.Pagination.PerPage)
	require.Len(t, result.Users, 3)
}

func TestChangeRole(t *testing.T) {
	repo := newMemoryUserRepo(seedUsers()...)
	svc := NewService(repo)

	user, err := svc.ChangeRole(context.Background(), 1, 2, "admin")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, user.Role)
}

func TestChangeRoleSelfForbidden(t *testing.T) {
	svc := NewService(newMemoryUserRepo(seedUsers()...))

	_, err := svc.ChangeRole(context.Background(), 1, 1, "customer")
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestChangeRoleUnknownRole(t *testing.T) {
	svc := NewService(newMemoryUserRepo(seedUsers()...))

	_, err := svc.ChangeRole(context.Background(), 1, 2, "superuser")
	require.Error(t, err)
}

func TestChangeRoleMissingUser(t *testing.T) {
	svc := NewService(newMemoryUserRepo(seedUsers()...))

	_, err := svc.ChangeRole(context.Background(), 1, 99, "admin")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
