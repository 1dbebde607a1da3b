// Command matchify is the MatchiFy client shell: it wires the preference
// store, the backend API client, and the session/profile controllers, and
// exposes the user flows as subcommands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matchify/matchify-core/internal/bootstrap"
	"github.com/matchify/matchify-core/internal/core"
	"github.com/matchify/matchify-core/internal/deeplink"
	"github.com/matchify/matchify-core/internal/domain/model"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger, os.Args[1:]); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

type app struct {
	session *core.AuthSessionService
	profile *core.TalentProfileService
	list    *core.MissionList
	form    *core.MissionForm
	logger  *slog.Logger
}

func run(ctx context.Context, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: matchify <role|login|signup|forgot|reset|profile|update|upload|missions|create|status|logout> [flags]")
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.IsDev {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	store, closeStore, err := bootstrap.NewPreferenceStore(ctx, cfg.Prefs, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.ErrorContext(ctx, "close preference store failed", "error", cerr)
		}
	}()

	client, err := bootstrap.NewAPIClient(cfg.API, logger)
	if err != nil {
		return err
	}

	a := &app{
		session: core.NewAuthSessionService(core.AuthSessionServiceOptions{
			Auth:   client,
			Prefs:  store,
			Logger: logger,
		}),
		profile: core.NewTalentProfileService(core.TalentProfileServiceOptions{
			API:    client,
			Logger: logger,
		}),
		list:   core.NewMissionList(nil),
		form:   core.NewMissionForm(logger),
		logger: logger,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "role":
		return a.selectRole(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "forgot":
		return a.forgotPassword(ctx, rest)
	case "reset":
		return a.resetPassword(ctx, rest)
	case "profile":
		return a.showProfile(ctx)
	case "update":
		return a.updateProfile(ctx, rest)
	case "upload":
		return a.uploadImage(ctx, rest)
	case "missions":
		return a.missions(rest)
	case "create":
		return a.createMission(rest)
	case "status":
		return a.status(ctx)
	case "logout":
		return a.logout(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) selectRole(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: matchify role <talent|recruiter>")
	}
	role := model.ParseRole(strings.ToLower(args[0]))
	if err := a.session.SelectRole(ctx, role); err != nil {
		return err
	}
	fmt.Printf("role set to %s\n", role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	remember := fs.Bool("remember", false, "remember this email on next launch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.session.Login(ctx, *email, *password, *remember); err != nil {
		return flowError(a.session.FlowState(core.FlowLogin), err)
	}
	fmt.Println("logged in")
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "", "talent or recruiter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.session.Signup(ctx, *name, *email, *password, model.ParseRole(*role)); err != nil {
		return flowError(a.session.FlowState(core.FlowSignup), err)
	}
	fmt.Println("account created, log in to continue")
	return nil
}

func (a *app) forgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.session.ForgotPassword(ctx, *email); err != nil {
		return flowError(a.session.FlowState(core.FlowForgotPassword), err)
	}
	fmt.Println("reset email sent")
	return nil
}

func (a *app) resetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	token := fs.String("token", "", "reset token")
	link := fs.String("url", "", "deep link carrying the reset token")
	password := fs.String("password", "", "new password")
	confirm := fs.String("confirm", "", "new password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// A deep link wins over an explicit token, matching app launch behavior.
	resetToken := *token
	if *link != "" {
		if extracted, ok := deeplink.ResetToken(*link); ok {
			resetToken = extracted
		}
	}

	if err := a.session.ResetPassword(ctx, resetToken, *password, *confirm); err != nil {
		return flowError(a.session.FlowState(core.FlowResetPassword), err)
	}
	fmt.Println("password updated")
	return nil
}

func (a *app) showProfile(ctx context.Context) error {
	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}

	profile, err := a.profile.Load(ctx, token)
	if err != nil {
		return fmt.Errorf("%s", a.profile.Status().ErrMessage)
	}
	printProfile(profile)
	return nil
}

func (a *app) updateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	bio := fs.String("bio", "", "about text")
	location := fs.String("location", "", "city")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}

	upd := model.ProfileUpdate{}
	if *name != "" {
		upd.Name = name
	}
	if *phone != "" {
		upd.Phone = phone
	}
	if *bio != "" {
		upd.Bio = bio
	}
	if *location != "" {
		upd.Location = location
	}

	profile, err := a.profile.Update(ctx, token, upd)
	if err != nil {
		return fmt.Errorf("%s", a.profile.Status().ErrMessage)
	}
	printProfile(profile)
	return nil
}

func (a *app) uploadImage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	kind := fs.String("kind", "profile", "profile or banner")
	path := fs.String("file", "", "image file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("usage: matchify upload -kind profile|banner -file image.jpg")
	}

	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	filename := filepath.Base(*path)

	var profile *model.TalentProfile
	switch *kind {
	case "profile":
		profile, err = a.profile.UploadProfileImage(ctx, token, filename, data)
	case "banner":
		profile, err = a.profile.UploadBannerImage(ctx, token, filename, data)
	default:
		return fmt.Errorf("unknown upload kind %q", *kind)
	}
	if err != nil {
		return fmt.Errorf("%s", a.profile.Status().ErrMessage)
	}
	printProfile(profile)
	return nil
}

func (a *app) missions(args []string) error {
	if len(args) > 0 {
		a.list.SetSearch(strings.Join(args, " "))
	}
	for _, m := range a.list.Filtered() {
		fmt.Printf("%s — %s, %s\n", m.Title, m.Duration, m.Budget)
		fmt.Printf("  %s\n", m.Description)
		fmt.Printf("  skills: %s\n", strings.Join(m.Skills, ", "))
	}
	return nil
}

func (a *app) createMission(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "mission title")
	description := fs.String("description", "", "mission description")
	duration := fs.String("duration", "", "expected duration")
	budget := fs.String("budget", "", "budget, free text")
	skills := fs.String("skills", "", "comma-separated skill list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.form.SetTitle(*title)
	a.form.SetDescription(*description)
	a.form.SetDuration(*duration)
	a.form.SetBudget(*budget)
	for _, skill := range strings.Split(*skills, ",") {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		a.form.SetSkillDraft(skill)
		if err := a.form.AddSkill(); err != nil {
			return err
		}
	}

	mission := a.form.Submit()
	fmt.Printf("mission %s created: %s\n", mission.ID, mission.Title)
	return nil
}

// status shows the stored session and, when authenticated, the live profile.
// The two reads are independent, so they run concurrently.
func (a *app) status(ctx context.Context) error {
	var (
		sess    model.Session
		profile *model.TalentProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sess, err = a.session.Bootstrap(gctx)
		return err
	})
	g.Go(func() error {
		inner, err := a.session.Bootstrap(gctx)
		if err != nil || !inner.Authenticated() {
			return err
		}
		profile, err = a.profile.Load(gctx, inner.AuthToken)
		if err != nil {
			// Stale session tokens are expected; status stays best-effort.
			a.logger.WarnContext(gctx, "profile fetch failed", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("role: %s\n", orDash(sess.Role.String()))
	fmt.Printf("remembered email: %s\n", orDash(sess.RememberedEmail))
	fmt.Printf("remember me: %t\n", sess.RememberMe)
	fmt.Printf("authenticated: %t\n", sess.Authenticated())
	if profile != nil {
		fmt.Println("profile:")
		printProfile(profile)
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) requireToken(ctx context.Context) (string, error) {
	sess, err := a.session.Bootstrap(ctx)
	if err != nil {
		return "", err
	}
	if !sess.Authenticated() {
		return "", errors.New("not logged in; run matchify login first")
	}
	return sess.AuthToken, nil
}

// flowError prefers the flow's user-facing message over the raw error.
func flowError(state core.FlowState, err error) error {
	if state.ErrMessage != "" {
		return errors.New(state.ErrMessage)
	}
	return err
}

func printProfile(p *model.TalentProfile) {
	fmt.Printf("  %s <%s> (%s)\n", p.DisplayName(), p.Email, p.Role)
	if p.Location != nil && *p.Location != "" {
		fmt.Printf("  location: %s\n", *p.Location)
	}
	if p.Bio != nil && *p.Bio != "" {
		fmt.Printf("  bio: %s\n", *p.Bio)
	}
	if p.Followers != nil || p.Following != nil {
		fmt.Printf("  followers: %d, following: %d\n", intOrZero(p.Followers), intOrZero(p.Following))
	}
	if len(p.PortfolioImages) > 0 {
		fmt.Printf("  portfolio: %d images\n", len(p.PortfolioImages))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
