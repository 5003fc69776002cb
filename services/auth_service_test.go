package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightboard-Labs/brightboard/backend/errs"
)

func setupAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(setupTestDB(t), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := setupAuth(t)

	user, token, err := auth.Register(RegisterInput{
		Email:    "  Casey@Example.COM ",
		Name:     "Casey",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "casey@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, token)

	resolved, err := auth.ResolveUser(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	loggedIn, token, err := auth.Login("casey@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, loggedIn.LastLoginAt)
}

func TestRegisterValidation(t *testing.T) {
	auth := setupAuth(t)

	_, _, err := auth.Register(RegisterInput{Email: "not-an-email", Name: "X", Password: "hunter2hunter2"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))

	_, _, err = auth.Register(RegisterInput{Email: "x@example.com", Name: "", Password: "hunter2hunter2"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))

	_, _, err = auth.Register(RegisterInput{Email: "x@example.com", Name: "X", Password: "short"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth := setupAuth(t)

	_, _, err := auth.Register(RegisterInput{Email: "dup@example.com", Name: "First", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, _, err = auth.Register(RegisterInput{Email: "DUP@example.com", Name: "Second", Password: "hunter2hunter2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrEmailTaken))
}

func TestLoginFailures(t *testing.T) {
	auth := setupAuth(t)

	user, _, err := auth.Register(RegisterInput{Email: "casey@example.com", Name: "Casey", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, _, err = auth.Login("casey@example.com", "wrong-password")
	assert.True(t, errors.Is(err, errs.ErrInvalidCredentials))

	_, _, err = auth.Login("nobody@example.com", "hunter2hunter2")
	assert.True(t, errors.Is(err, errs.ErrInvalidCredentials))

	require.NoError(t, auth.Deactivate(user.ID))
	_, _, err = auth.Login("casey@example.com", "hunter2hunter2")
	assert.True(t, errors.Is(err, errs.ErrAccountDeactivated))
}

func TestResolveUserRejectsBadTokens(t *testing.T) {
	auth := setupAuth(t)

	user, token, err := auth.Register(RegisterInput{Email: "casey@example.com", Name: "Casey", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = auth.ResolveUser("not-a-token")
	assert.True(t, errs.IsUnauthorized(err))

	// a token signed with a different secret never resolves
	otherSigner := NewAuthService(setupTestDB(t), "other-secret", time.Hour)
	forged, err := otherSigner.IssueToken(user.ID)
	require.NoError(t, err)
	_, err = auth.ResolveUser(forged)
	assert.True(t, errs.IsUnauthorized(err))

	// deactivation locks out tokens that are otherwise still valid
	require.NoError(t, auth.Deactivate(user.ID))
	_, err = auth.ResolveUser(token)
	assert.True(t, errors.Is(err, errs.ErrAccountDeactivated))
}

func TestTokenExpiry(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, "test-secret", time.Hour)
	shortLived := NewAuthService(db, "test-secret", -time.Minute)

	user, _, err := auth.Register(RegisterInput{Email: "casey@example.com", Name: "Casey", Password: "hunter2hunter2"})
	require.NoError(t, err)

	token, err := shortLived.IssueToken(user.ID)
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestChangePassword(t *testing.T) {
	auth := setupAuth(t)

	user, _, err := auth.Register(RegisterInput{Email: "casey@example.com", Name: "Casey", Password: "hunter2hunter2"})
	require.NoError(t, err)

	err = auth.ChangePassword(user.ID, "wrong-current", "newpassword1")
	assert.True(t, errors.Is(err, errs.ErrInvalidCredentials))

	err = auth.ChangePassword(user.ID, "hunter2hunter2", "short")
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))

	require.NoError(t, auth.ChangePassword(user.ID, "hunter2hunter2", "newpassword1"))
	_, _, err = auth.Login("casey@example.com", "newpassword1")
	require.NoError(t, err)
	_, _, err = auth.Login("casey@example.com", "hunter2hunter2")
	assert.True(t, errors.Is(err, errs.ErrInvalidCredentials))
}

func TestUpdateProfile(t *testing.T) {
	auth := setupAuth(t)

	user, _, err := auth.Register(RegisterInput{Email: "casey@example.com", Name: "Casey", Password: "hunter2hunter2"})
	require.NoError(t, err)

	name := "Casey Q"
	avatar := "https://example.com/avatar.png"
	updated, err := auth.UpdateProfile(user.ID, ProfileInput{Name: &name, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Casey Q", updated.Name)
	assert.Equal(t, avatar, updated.AvatarURL)

	empty := "   "
	_, err = auth.UpdateProfile(user.ID, ProfileInput{Name: &empty})
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))
}

func TestSearchUsers(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, "test-secret", time.Hour)

	_, _, err := auth.Register(RegisterInput{Email: "alice@example.com", Name: "Alice", Password: "hunter2hunter2"})
	require.NoError(t, err)
	bob, _, err := auth.Register(RegisterInput{Email: "bob@example.com", Name: "Bob", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NoError(t, auth.Deactivate(bob.ID))

	found, err := auth.SearchUsers("alice", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice@example.com", found[0].Email)

	// deactivated accounts are invisible to search
	found, err = auth.SearchUsers("bob", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = auth.SearchUsers("   ", 10)
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))
}
