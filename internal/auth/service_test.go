package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdantfield/portal/internal/platform/httpx"
	"github.com/verdantfield/portal/internal/shared"
)

type memoryAuthRepo struct {
	users    map[int64]*User
	byEmail  map[string]int64
	sessions map[string]int64
	nextID   int64
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{
		users:    make(map[int64]*User),
		byEmail:  make(map[string]int64),
		sessions: make(map[string]int64),
	}
}

func (r *memoryAuthRepo) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if _, exists := r.byEmail[input.Email]; exists {
		return nil, httpx.ErrDuplicate
	}
	r.nextID++
	user := &User{
		ID:           r.nextID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *memoryAuthRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return r.users[id], nil
}

func (r *memoryAuthRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func (r *memoryAuthRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	r.sessions[id] = userID
	return nil
}

func (r *memoryAuthRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func TestRegisterHashesPasswordAndDefaultsCustomer(t *testing.T) {
	svc := NewService(newMemoryAuthRepo())

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Dana Whitfield",
		Email:    "dana@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Equal(t, RoleCustomer, user.Role)
	require.NotEqual(t, "correct horse battery", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse battery")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryAuthRepo())

	input := RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "password123"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMemoryAuthRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Dana", Email: "dana@example.com", Password: "password123",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "dana@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", user.Email)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(newMemoryAuthRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Dana", Email: "dana@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "dana@example.com", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(newMemoryAuthRepo())

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	role, err = ParseRole("customer")
	require.NoError(t, err)
	require.Equal(t, RoleCustomer, role)

	_, err = ParseRole("root")
	require.Error(t, err)
}
