package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
	"github.com/sohbetapp/sohbet-server/internal/store/memory"
)

type fakeAttempts struct {
	counts map[string]int64
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{counts: make(map[string]int64)}
}

func (f *fakeAttempts) IncrLoginFailure(_ context.Context, email string) (int64, error) {
	f.counts[email]++
	return f.counts[email], nil
}

func (f *fakeAttempts) ResetLoginFailures(_ context.Context, email string) error {
	delete(f.counts, email)
	return nil
}

func newTestService(t *testing.T) (*Service, *memory.Store, *fakeAttempts) {
	t.Helper()
	st := memory.NewStore()
	attempts := newFakeAttempts()
	tokens := NewTokens("test-secret", time.Hour)
	svc := NewService(st, tokens, NewSessions(), attempts, 3, zap.NewNop().Sugar())
	return svc, st, attempts
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.Equal(t, "alice@example.com", u.Email)

	got, token2, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token2)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterWeakPasswordBeforeAnyStoreCall(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "bob@example.com", "12345", "Bob")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = st.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound, "weak password must be rejected before the store is touched")
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Register(context.Background(), "not-an-email", "secret1", "X")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRegisterEmailInUse(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "carol@example.com", "secret1", "Carol")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "carol@example.com", "secret2", "Carol Again")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLoginUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Login(context.Background(), "nonexistent@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "dave@example.com", "secret1", "Dave")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "dave@example.com", "not-it")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLoginTooManyAttempts(t *testing.T) {
	svc, _, attempts := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "eve@example.com", "secret1", "Eve")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = svc.Login(ctx, "eve@example.com", "wrong")
		require.ErrorIs(t, err, ErrWrongPassword)
	}
	_, _, err = svc.Login(ctx, "eve@example.com", "wrong")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// successful login resets the counter
	_, _, err = svc.Login(ctx, "eve@example.com", "secret1")
	require.NoError(t, err)
	assert.Zero(t, attempts.counts["eve@example.com"])
}

func TestValidateRegistrationConfirmMismatch(t *testing.T) {
	err := ValidateRegistration("frank@example.com", "secret1", "secret2")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestObserveSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var seen []*models.User
	cancel := svc.Sessions().Observe(func(u *models.User) {
		seen = append(seen, u)
	})
	require.Len(t, seen, 1, "observer fires immediately")
	assert.Nil(t, seen[0], "no session yet")

	u, _, err := svc.Register(ctx, "grace@example.com", "secret1", "Grace")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, u.ID, seen[1].ID)

	svc.Logout(ctx)
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	cancel()
	cancel() // idempotent
	svc.Logout(ctx)
	assert.Len(t, seen, 3, "cancelled observer no longer fires")
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	tok, err := tokens.Mint("user-1")
	require.NoError(t, err)
	uid, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	_, err = tokens.Verify("garbage")
	assert.Error(t, err)
}
