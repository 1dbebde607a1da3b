package core

import (
	"context"
	"log/slog"

	"github.com/matchify/matchify-core/internal/domain/model"
	"golang.org/x/sync/singleflight"
)

// ProfileStatus is the observable loading/error state of the profile
// controller. Zero value is idle with no error.
type ProfileStatus struct {
	Loading    bool
	ErrMessage string
}

// TalentProfileServiceOptions bundles dependencies for
// NewTalentProfileService.
type TalentProfileServiceOptions struct {
	API    TalentAPI
	Logger *slog.Logger
}

// TalentProfileService orchestrates profile fetch, update and image uploads.
// It owns one profile value that is replaced wholesale with the server's
// authoritative copy on every success; a failure leaves the prior profile
// intact, because stale-but-present data beats blanking the screen.
//
// Overlapping operations are rejected with ErrInFlight, mirroring the auth
// flows. Concurrent Load calls are the exception: they coalesce onto one
// request and share its result, since a shared read is observationally the
// same as a rejection without the spurious error.
type TalentProfileService struct {
	api    TalentAPI
	logger *slog.Logger

	profile *State[*model.TalentProfile]
	status  *State[ProfileStatus]
	loads   singleflight.Group
}

// NewTalentProfileService creates a new TalentProfileService.
func NewTalentProfileService(opts TalentProfileServiceOptions) *TalentProfileService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TalentProfileService{
		api:     opts.API,
		logger:  logger,
		profile: NewState[*model.TalentProfile](nil),
		status:  NewState(ProfileStatus{}),
	}
}

// Profile returns the current profile, nil until the first successful fetch.
func (s *TalentProfileService) Profile() *model.TalentProfile {
	return s.profile.Get()
}

// Status returns the current loading/error state.
func (s *TalentProfileService) Status() ProfileStatus {
	return s.status.Get()
}

// SubscribeProfile registers a change listener on the profile value.
func (s *TalentProfileService) SubscribeProfile() (<-chan *model.TalentProfile, func()) {
	return s.profile.Subscribe()
}

// SubscribeStatus registers a change listener on the loading/error state.
func (s *TalentProfileService) SubscribeStatus() (<-chan ProfileStatus, func()) {
	return s.status.Subscribe()
}

// Load fetches the profile. Concurrent loads share one request.
func (s *TalentProfileService) Load(ctx context.Context, token string) (*model.TalentProfile, error) {
	v, err, _ := s.loads.Do("profile", func() (any, error) {
		if !s.begin() {
			return nil, ErrInFlight
		}

		profile, err := s.api.GetProfile(ctx, token)
		if err != nil {
			s.fail(ctx, "load profile", err, "failed to load profile")
			return nil, err
		}

		s.profile.set(profile)
		s.finish()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.TalentProfile), nil
}

// Update applies a partial profile edit and replaces the local profile with
// the server's copy. The client never merges optimistic edits locally.
func (s *TalentProfileService) Update(ctx context.Context, token string, upd model.ProfileUpdate) (*model.TalentProfile, error) {
	if !s.begin() {
		return nil, ErrInFlight
	}

	profile, err := s.api.UpdateProfile(ctx, token, upd)
	if err != nil {
		s.fail(ctx, "update profile", err, "failed to update profile")
		return nil, err
	}

	s.profile.set(profile)
	s.finish()
	return profile, nil
}

// UploadProfileImage uploads a new profile image. The response carries the
// full profile including the new image reference.
func (s *TalentProfileService) UploadProfileImage(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error) {
	return s.upload(ctx, token, filename, data, s.api.UploadProfileImage, "failed to upload profile image")
}

// UploadBannerImage uploads a new banner image.
func (s *TalentProfileService) UploadBannerImage(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error) {
	return s.upload(ctx, token, filename, data, s.api.UploadBannerImage, "failed to upload banner image")
}

type uploadFunc func(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error)

func (s *TalentProfileService) upload(ctx context.Context, token, filename string, data []byte, fn uploadFunc, fallback string) (*model.TalentProfile, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "must not be empty"}
	}

	if !s.begin() {
		return nil, ErrInFlight
	}

	profile, err := fn(ctx, token, filename, data)
	if err != nil {
		s.fail(ctx, "upload image", err, fallback)
		return nil, err
	}

	s.profile.set(profile)
	s.finish()
	return profile, nil
}

// begin transitions to loading unless an operation is already in flight,
// clearing any stale error in the same step.
func (s *TalentProfileService) begin() bool {
	return s.status.update(func(cur ProfileStatus) (ProfileStatus, bool) {
		if cur.Loading {
			return cur, false
		}
		return ProfileStatus{Loading: true}, true
	})
}

func (s *TalentProfileService) finish() {
	s.status.set(ProfileStatus{})
}

func (s *TalentProfileService) fail(ctx context.Context, op string, err error, fallback string) {
	s.logger.WarnContext(ctx, "profile operation failed", "op", op, "error", err)
	s.status.set(ProfileStatus{ErrMessage: failureMessage(err, fallback)})
}
