package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/matchify/matchify-core/internal/domain/model"
)

// Flow identifies one logical auth operation with its own lifecycle.
type Flow string

// The four auth flows. Each runs independently: a login in flight does not
// block a forgot-password request.
const (
	FlowLogin          Flow = "login"
	FlowSignup         Flow = "signup"
	FlowForgotPassword Flow = "forgot_password"
	FlowResetPassword  Flow = "reset_password"
)

var allFlows = []Flow{FlowLogin, FlowSignup, FlowForgotPassword, FlowResetPassword}

// FlowState is the observable lifecycle of one flow invocation.
// Zero value is Idle. Loading means InFlight; Succeeded and ErrMessage are
// terminal for the invocation and reset when the flow is re-invoked.
type FlowState struct {
	Loading    bool
	Succeeded  bool
	ErrMessage string
}

// Failed reports whether the last invocation ended in failure.
func (f FlowState) Failed() bool {
	return f.ErrMessage != ""
}

// AuthSessionServiceOptions bundles dependencies for NewAuthSessionService.
type AuthSessionServiceOptions struct {
	Auth   AuthAPI
	Prefs  PreferenceStore
	Logger *slog.Logger
}

// AuthSessionService orchestrates the login, signup, forgot-password and
// reset-password flows. Each flow moves Idle -> InFlight -> Succeeded or
// Failed; re-invoking a flow that is InFlight is a strict no-op, which is
// what keeps a double-tapped submit button from firing two requests.
type AuthSessionService struct {
	auth   AuthAPI
	prefs  PreferenceStore
	logger *slog.Logger
	flows  map[Flow]*State[FlowState]
}

// NewAuthSessionService creates a new AuthSessionService.
func NewAuthSessionService(opts AuthSessionServiceOptions) *AuthSessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	flows := make(map[Flow]*State[FlowState], len(allFlows))
	for _, f := range allFlows {
		flows[f] = NewState(FlowState{})
	}

	return &AuthSessionService{
		auth:   opts.Auth,
		prefs:  opts.Prefs,
		logger: logger,
		flows:  flows,
	}
}

// FlowState returns the current state of flow.
func (s *AuthSessionService) FlowState(flow Flow) FlowState {
	return s.flows[flow].Get()
}

// SubscribeFlow registers a change listener on flow's state.
func (s *AuthSessionService) SubscribeFlow(flow Flow) (<-chan FlowState, func()) {
	return s.flows[flow].Subscribe()
}

// Login exchanges credentials for a bearer token. On success the token is
// persisted; when rememberMe is set the email and remember flag are
// persisted too, otherwise any remembered email is cleared.
func (s *AuthSessionService) Login(ctx context.Context, email, password string, rememberMe bool) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}

	if !s.begin(FlowLogin) {
		return ErrInFlight
	}

	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.fail(ctx, FlowLogin, err, "invalid email or password")
		return err
	}

	s.persistLogin(ctx, token, email, rememberMe)
	s.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID)
	s.succeed(FlowLogin)
	return nil
}

// Signup registers a new account. The issued token is intentionally not
// persisted: the app routes fresh signups through login.
func (s *AuthSessionService) Signup(ctx context.Context, name, email, password string, role model.Role) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if !role.Valid() {
		return &ValidationError{Field: "role", Reason: "must be talent or recruiter"}
	}

	if !s.begin(FlowSignup) {
		return ErrInFlight
	}

	_, user, err := s.auth.Signup(ctx, name, email, password, role)
	if err != nil {
		s.fail(ctx, FlowSignup, err, "signup failed")
		return err
	}

	s.logger.InfoContext(ctx, "signup succeeded", "user_id", user.ID)
	s.succeed(FlowSignup)
	return nil
}

// ForgotPassword requests a password-reset email.
func (s *AuthSessionService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}

	if !s.begin(FlowForgotPassword) {
		return ErrInFlight
	}

	if err := s.auth.ForgotPassword(ctx, email); err != nil {
		s.fail(ctx, FlowForgotPassword, err, "server error")
		return err
	}

	s.succeed(FlowForgotPassword)
	return nil
}

// ResetPassword sets a new password using a reset token, typically one
// extracted from a deep link. The confirmation mismatch is rejected at the
// boundary; the backend never sees it.
func (s *AuthSessionService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if strings.TrimSpace(token) == "" {
		return &ValidationError{Field: "token", Reason: "must not be empty"}
	}
	if newPassword == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if newPassword != confirmPassword {
		return &ValidationError{Field: "password", Reason: "passwords do not match"}
	}

	if !s.begin(FlowResetPassword) {
		return ErrInFlight
	}

	if err := s.auth.ResetPassword(ctx, token, newPassword); err != nil {
		s.fail(ctx, FlowResetPassword, err, "server error")
		return err
	}

	s.succeed(FlowResetPassword)
	return nil
}

// SelectRole persists the chosen marketplace role. Role selection happens
// before login, so this does not require an authenticated session.
func (s *AuthSessionService) SelectRole(ctx context.Context, role model.Role) error {
	if !role.Valid() {
		return &ValidationError{Field: "role", Reason: "must be talent or recruiter"}
	}
	return s.prefs.Set(ctx, PrefKeyRole, role.String())
}

// Bootstrap loads the persisted session for launch routing: remember-me plus
// a stored token lets the app skip the role/login screens.
func (s *AuthSessionService) Bootstrap(ctx context.Context) (model.Session, error) {
	var sess model.Session

	role, err := s.prefs.Get(ctx, PrefKeyRole)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return model.Session{}, err
	}
	sess.Role = model.ParseRole(role)

	email, err := s.prefs.Get(ctx, PrefKeyEmail)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return model.Session{}, err
	}
	sess.RememberedEmail = email

	remember, err := s.prefs.GetBool(ctx, PrefKeyRememberMe)
	if err != nil {
		return model.Session{}, err
	}
	sess.RememberMe = remember

	token, err := s.prefs.Get(ctx, PrefKeyToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return model.Session{}, err
	}
	sess.AuthToken = token

	return sess, nil
}

// Logout clears the whole persisted session.
func (s *AuthSessionService) Logout(ctx context.Context) error {
	return s.prefs.Clear(ctx)
}

// begin transitions flow to InFlight unless it already is. Stale success
// and error results from a prior attempt are cleared in the same step, so
// they never leak into the new attempt's observation window.
func (s *AuthSessionService) begin(flow Flow) bool {
	return s.flows[flow].update(func(cur FlowState) (FlowState, bool) {
		if cur.Loading {
			return cur, false
		}
		return FlowState{Loading: true}, true
	})
}

func (s *AuthSessionService) succeed(flow Flow) {
	s.flows[flow].set(FlowState{Succeeded: true})
}

func (s *AuthSessionService) fail(ctx context.Context, flow Flow, err error, fallback string) {
	msg := failureMessage(err, fallback)
	s.logger.WarnContext(ctx, "auth flow failed", "flow", string(flow), "error", err)
	s.flows[flow].set(FlowState{ErrMessage: msg})
}

// persistLogin writes the session side effects of a successful login.
// Storage failures are logged, not fatal: the user is authenticated either
// way, the session just won't survive a restart.
func (s *AuthSessionService) persistLogin(ctx context.Context, token, email string, rememberMe bool) {
	if token != "" {
		if err := s.prefs.Set(ctx, PrefKeyToken, token); err != nil {
			s.logger.ErrorContext(ctx, "persist token failed", "error", err)
		}
	}

	if rememberMe {
		if err := s.prefs.Set(ctx, PrefKeyEmail, email); err != nil {
			s.logger.ErrorContext(ctx, "persist email failed", "error", err)
		}
		if err := s.prefs.SetBool(ctx, PrefKeyRememberMe, true); err != nil {
			s.logger.ErrorContext(ctx, "persist remember flag failed", "error", err)
		}
		return
	}

	if err := s.prefs.Delete(ctx, PrefKeyEmail); err != nil {
		s.logger.ErrorContext(ctx, "clear remembered email failed", "error", err)
	}
	if err := s.prefs.SetBool(ctx, PrefKeyRememberMe, false); err != nil {
		s.logger.ErrorContext(ctx, "clear remember flag failed", "error", err)
	}
}
