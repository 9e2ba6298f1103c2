package services

import (
	"context"
	"testing"

	"snapland/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	tokens := NewTokenService(testJWTConfig())
	return NewUserService(testLogger(), repo, tokens), repo
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.DisplayName)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	logged, token2, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token2)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "bob@example.com", "bob", "secret12")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "bob@example.com", "bobby", "secret34")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserService_LoginFailuresLookAlike(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "carol@example.com", "carol", "correct-horse")
	require.NoError(t, err)

	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever")
	_, _, errWrongPw := svc.Login(ctx, "carol@example.com", "battery-staple")

	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPw)
}

func TestUserService_RegisterRequiresEmailAndPassword(t *testing.T) {
	svc, _ := newUserFixture()

	_, _, err := svc.Register(context.Background(), "", "x", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = svc.Register(context.Background(), "x@example.com", "x", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
