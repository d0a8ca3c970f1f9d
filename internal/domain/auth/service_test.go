package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/apperror"
	appctx "invenpos/internal/core/context"
	"invenpos/internal/core/id"
)

type fakeUserRepo struct {
	byID map[id.ID]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[id.ID]*User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	u, ok := r.byID[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *fakeUserRepo) Update(_ context.Context, user *User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID.String())
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ UserFilter) ([]User, int, error) {
	var users []User
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (r *fakeUserRepo) Exists(_ context.Context, username string) (bool, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountAdmins(_ context.Context) (int, error) {
	n := 0
	for _, u := range r.byID {
		if u.IsAdmin() && u.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeTokenRepo struct {
	byHash map[string]*RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]*RefreshToken)}
}

func (r *fakeTokenRepo) SaveRefreshToken(_ context.Context, token *RefreshToken) error {
	cp := *token
	r.byHash[token.TokenHash] = &cp
	return nil
}

func (r *fakeTokenRepo) GetRefreshToken(_ context.Context, tokenHash string) (*RefreshToken, error) {
	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, apperror.NewNotFound("refresh token", tokenHash)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) RevokeRefreshToken(_ context.Context, tokenID id.ID, reason string) error {
	for _, t := range r.byHash {
		if t.ID == tokenID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(_ context.Context, userID id.ID, reason string) error {
	for _, t := range r.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(_ context.Context) (int, error) {
	return 0, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService(t *testing.T) (*Service, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	svc := NewService(users, tokens, passthroughTx{}, jwtSvc, DefaultServiceConfig())
	return svc, users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Username: "alice",
		Password: "correct horse",
		FullName: "Alice Smith",
		Role:     appctx.RoleCashier,
	})
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleCashier, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password must be hashed")

	tokens, loggedIn, err := svc.Login(ctx, Credentials{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotNil(t, loggedIn.LastLoginAt)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "", Password: "longenough"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Password: "short"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Password: "longenough", Role: "superuser"})
	assert.Error(t, err, "unknown role is rejected")

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Password: "longenough"})
	assert.Error(t, err, "duplicate username is rejected")
}

func TestLogin_WrongPasswordAndLockout(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "wrong"})
		require.Error(t, err)
	}

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked(), "account locks after repeated failures")

	_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "correct horse"})
	assert.Error(t, err, "locked account cannot log in even with the right password")
}

func TestRefreshToken_Rotation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	tokens, _, err := svc.Login(ctx, Credentials{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.Error(t, err, "used refresh token is revoked")
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new password 1",
	})
	assert.Error(t, err)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "correct horse",
		NewPassword:     "new password 1",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "new password 1"})
	assert.NoError(t, err)
}

func TestUpdateUser_AdminCorrection(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	newName := "Alice Cooper"
	updated, err := svc.UpdateUser(ctx, user.ID, UpdateUserRequest{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.FullName)

	short := "short"
	_, err = svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Password: &short})
	assert.Error(t, err, "reset password must meet the minimum length")

	reset := "fresh password"
	_, err = svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Password: &reset})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, Credentials{Username: "alice", Password: "fresh password"})
	assert.NoError(t, err)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", stored.FullName, "name survives the password reset")
}

func TestSetActive_LastAdminProtected(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterRequest{
		Username: "root", Password: "longenough", Role: appctx.RoleAdmin,
	})
	require.NoError(t, err)

	err = svc.SetActive(ctx, admin.ID, false)
	require.Error(t, err, "last admin cannot be disabled")

	second, err := svc.Register(ctx, RegisterRequest{
		Username: "root2", Password: "longenough", Role: appctx.RoleAdmin,
	})
	require.NoError(t, err)

	err = svc.SetActive(ctx, second.ID, false)
	assert.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin", "bootstrap pass")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.IsAdmin())

	again, err := svc.EnsureAdmin(ctx, "admin", "bootstrap pass")
	require.NoError(t, err)
	assert.Nil(t, again, "no second bootstrap once an admin exists")
}
