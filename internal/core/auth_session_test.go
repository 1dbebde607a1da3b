package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/matchify/matchify-core/internal/adapters/prefs"
	"github.com/matchify/matchify-core/internal/core"
	"github.com/matchify/matchify-core/internal/domain/model"
	"github.com/matchify/matchify-core/internal/mocks"
)

func newSessionService(t *testing.T) (*core.AuthSessionService, *mocks.MockAuthAPI, *prefs.MemoryStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthAPI(ctrl)
	store := prefs.NewMemoryStore()
	svc := core.NewAuthSessionService(core.AuthSessionServiceOptions{
		Auth:  auth,
		Prefs: store,
	})
	return svc, auth, store
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	svc, auth, store := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		Return("tok-123", model.User{ID: "u1", Email: "jane@example.com"}, nil)

	require.NoError(t, svc.Login(ctx, "jane@example.com", "secret", false))

	token, err := store.Get(ctx, core.PrefKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	state := svc.FlowState(core.FlowLogin)
	assert.True(t, state.Succeeded)
	assert.False(t, state.Loading)
	assert.Empty(t, state.ErrMessage)
}

func TestLoginRememberMePersistsEmail(t *testing.T) {
	svc, auth, store := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		Return("tok-123", model.User{ID: "u1"}, nil)

	require.NoError(t, svc.Login(ctx, "jane@example.com", "secret", true))

	email, err := store.Get(ctx, core.PrefKeyEmail)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)

	remember, err := store.GetBool(ctx, core.PrefKeyRememberMe)
	require.NoError(t, err)
	assert.True(t, remember)
}

func TestLoginWithoutRememberMeClearsRememberedEmail(t *testing.T) {
	svc, auth, store := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.PrefKeyEmail, "old@example.com"))
	require.NoError(t, store.SetBool(ctx, core.PrefKeyRememberMe, true))

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		Return("tok-123", model.User{ID: "u1"}, nil)

	require.NoError(t, svc.Login(ctx, "jane@example.com", "secret", false))

	_, err := store.Get(ctx, core.PrefKeyEmail)
	assert.ErrorIs(t, err, core.ErrNotFound)

	remember, err := store.GetBool(ctx, core.PrefKeyRememberMe)
	require.NoError(t, err)
	assert.False(t, remember)
}

func TestLoginFailureDoesNotPersistAnything(t *testing.T) {
	svc, auth, store := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "wrong").
		Return("", model.User{}, errors.New("unauthorized"))

	err := svc.Login(ctx, "jane@example.com", "wrong", true)
	require.Error(t, err)

	assert.Equal(t, 0, store.Len(), "a failed login must leave the store untouched")

	state := svc.FlowState(core.FlowLogin)
	assert.True(t, state.Failed())
	assert.Equal(t, "unauthorized", state.ErrMessage)
	assert.False(t, state.Succeeded)
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	var verr *core.ValidationError
	require.ErrorAs(t, svc.Login(ctx, "   ", "secret", false), &verr)
	require.ErrorAs(t, svc.Login(ctx, "jane@example.com", "", false), &verr)

	// The flow never left Idle.
	state := svc.FlowState(core.FlowLogin)
	assert.False(t, state.Loading)
	assert.False(t, state.Succeeded)
	assert.False(t, state.Failed())
}

func TestLoginWhileInFlightIsNoOp(t *testing.T) {
	svc, auth, _ := newSessionService(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		DoAndReturn(func(context.Context, string, string) (string, model.User, error) {
			close(started)
			<-release
			return "tok-123", model.User{ID: "u1"}, nil
		}).
		Times(1)

	done := make(chan error, 1)
	go func() {
		done <- svc.Login(ctx, "jane@example.com", "secret", false)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first login never reached the API")
	}

	// Second invocation while the first is in flight: rejected, no second
	// API call (the mock's Times(1) enforces the call count).
	err := svc.Login(ctx, "jane@example.com", "secret", false)
	assert.ErrorIs(t, err, core.ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, svc.FlowState(core.FlowLogin).Succeeded)
}

func TestLoginRetryClearsStaleError(t *testing.T) {
	svc, auth, _ := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "wrong").
		Return("", model.User{}, errors.New("unauthorized"))
	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "right").
		Return("tok-123", model.User{ID: "u1"}, nil)

	require.Error(t, svc.Login(ctx, "jane@example.com", "wrong", false))
	require.True(t, svc.FlowState(core.FlowLogin).Failed())

	require.NoError(t, svc.Login(ctx, "jane@example.com", "right", false))
	state := svc.FlowState(core.FlowLogin)
	assert.True(t, state.Succeeded)
	assert.Empty(t, state.ErrMessage)
}

func TestFlowsRunIndependently(t *testing.T) {
	svc, auth, _ := newSessionService(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		DoAndReturn(func(context.Context, string, string) (string, model.User, error) {
			close(started)
			<-release
			return "tok-123", model.User{ID: "u1"}, nil
		})
	auth.EXPECT().
		ForgotPassword(gomock.Any(), "jane@example.com").
		Return(nil)

	done := make(chan error, 1)
	go func() {
		done <- svc.Login(ctx, "jane@example.com", "secret", false)
	}()
	<-started

	// A login in flight does not block the forgot-password flow.
	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com"))

	close(release)
	require.NoError(t, <-done)
}

func TestSignupDoesNotPersistToken(t *testing.T) {
	svc, auth, store := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Signup(gomock.Any(), "Jane", "jane@example.com", "secret", model.RoleTalent).
		Return("tok-fresh", model.User{ID: "u1"}, nil)

	require.NoError(t, svc.Signup(ctx, "Jane", "jane@example.com", "secret", model.RoleTalent))

	// Fresh signups go through login; the issued token is discarded.
	_, err := store.Get(ctx, core.PrefKeyToken)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.True(t, svc.FlowState(core.FlowSignup).Succeeded)
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     model.Role
	}{
		{name: "empty name", userName: " ", email: "j@x.com", password: "p", role: model.RoleTalent},
		{name: "empty email", userName: "Jane", email: "", password: "p", role: model.RoleTalent},
		{name: "empty password", userName: "Jane", email: "j@x.com", password: "", role: model.RoleTalent},
		{name: "invalid role", userName: "Jane", email: "j@x.com", password: "p", role: model.Role("admin")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *core.ValidationError
			err := svc.Signup(ctx, tt.userName, tt.email, tt.password, tt.role)
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestResetPasswordMismatchRejectedLocally(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	var verr *core.ValidationError
	err := svc.ResetPassword(ctx, "tok", "new-pass", "other-pass")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	// The backend was never called; the flow stayed Idle.
	state := svc.FlowState(core.FlowResetPassword)
	assert.False(t, state.Loading)
	assert.False(t, state.Failed())
}

func TestResetPasswordSuccess(t *testing.T) {
	svc, auth, _ := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		ResetPassword(gomock.Any(), "tok-abc", "new-pass").
		Return(nil)

	require.NoError(t, svc.ResetPassword(ctx, "tok-abc", "new-pass", "new-pass"))
	assert.True(t, svc.FlowState(core.FlowResetPassword).Succeeded)
}

func TestForgotPasswordFailureUsesPayloadMessage(t *testing.T) {
	svc, auth, _ := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		ForgotPassword(gomock.Any(), "jane@example.com").
		Return(&messageError{msg: "email not registered"})

	require.Error(t, svc.ForgotPassword(ctx, "jane@example.com"))
	assert.Equal(t, "email not registered", svc.FlowState(core.FlowForgotPassword).ErrMessage)
}

// messageError mimics an API error carrying a user-facing message.
type messageError struct{ msg string }

func (e *messageError) Error() string   { return e.msg }
func (e *messageError) Message() string { return e.msg }

func TestSelectRole(t *testing.T) {
	svc, _, store := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, svc.SelectRole(ctx, model.RoleRecruiter))
	role, err := store.Get(ctx, core.PrefKeyRole)
	require.NoError(t, err)
	assert.Equal(t, "recruiter", role)

	var verr *core.ValidationError
	require.ErrorAs(t, svc.SelectRole(ctx, model.Role("pirate")), &verr)
}

func TestBootstrapEmptyStore(t *testing.T) {
	svc, _, _ := newSessionService(t)

	sess, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Session{}, sess)
	assert.False(t, sess.Authenticated())
}

func TestBootstrapRestoresSession(t *testing.T) {
	svc, auth, _ := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		Return("tok-123", model.User{ID: "u1"}, nil)
	require.NoError(t, svc.SelectRole(ctx, model.RoleTalent))
	require.NoError(t, svc.Login(ctx, "jane@example.com", "secret", true))

	sess, err := svc.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTalent, sess.Role)
	assert.Equal(t, "jane@example.com", sess.RememberedEmail)
	assert.True(t, sess.RememberMe)
	assert.Equal(t, "tok-123", sess.AuthToken)
	assert.True(t, sess.Authenticated())
}

func TestLogoutClearsSession(t *testing.T) {
	svc, auth, store := newSessionService(t)
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		Return("tok-123", model.User{ID: "u1"}, nil)
	require.NoError(t, svc.Login(ctx, "jane@example.com", "secret", true))
	require.NotZero(t, store.Len())

	require.NoError(t, svc.Logout(ctx))
	assert.Zero(t, store.Len())

	sess, err := svc.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestLoginSucceedsWhenPersistenceFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthAPI(ctrl)
	store := mocks.NewMockPreferenceStore(ctrl)
	svc := core.NewAuthSessionService(core.AuthSessionServiceOptions{
		Auth:  auth,
		Prefs: store,
	})
	ctx := context.Background()

	auth.EXPECT().
		Login(gomock.Any(), "jane@example.com", "secret").
		Return("tok-123", model.User{ID: "u1"}, nil)
	store.EXPECT().
		Set(gomock.Any(), core.PrefKeyToken, "tok-123").
		Return(errors.New("disk full"))
	store.EXPECT().
		Delete(gomock.Any(), core.PrefKeyEmail).
		Return(nil)
	store.EXPECT().
		SetBool(gomock.Any(), core.PrefKeyRememberMe, false).
		Return(nil)

	// Storage trouble does not fail the login itself.
	require.NoError(t, svc.Login(ctx, "jane@example.com", "secret", false))
	assert.True(t, svc.FlowState(core.FlowLogin).Succeeded)
}
