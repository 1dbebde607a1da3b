package core

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/matchify/matchify-core/internal/domain/model"
)

// SampleMissions returns the seed missions shown on the list screen until
// the backend mission feed exists.
func SampleMissions() []model.MissionListItem {
	return []model.MissionListItem{
		{
			ID:          uuid.NewString(),
			Title:       "Social Media Campaign for Fashion Brand",
			Description: "Create and manage a 3-month social media campaign for a new fashion collection, including content creation, influencer outreach and weekly reporting.",
			Duration:    "3 months",
			Budget:      "€2,500",
			Skills:      []string{"Marketing", "Social Media", "Content Creation"},
		},
		{
			ID:          uuid.NewString(),
			Title:       "Music Video Editing for Indie Artist",
			Description: "Edit a complete music video from raw footage. The style should be dynamic, modern and optimized for YouTube and TikTok.",
			Duration:    "2 weeks",
			Budget:      "€800",
			Skills:      []string{"Video Editing", "Color Grading", "Storytelling"},
		},
		{
			ID:          uuid.NewString(),
			Title:       "Brand Identity for Creative Studio",
			Description: "Design a full brand identity including logo, color palette, typography and basic guidelines in a short PDF brandbook.",
			Duration:    "1 month",
			Budget:      "€1,200",
			Skills:      []string{"Graphic Design", "Branding", "Illustration"},
		},
	}
}

// FilterMissions returns the missions matching query: a case-insensitive
// substring match against title, description, duration, budget, or any
// skill. An empty or whitespace-only query returns the full list in order.
// Pure function of its inputs.
func FilterMissions(missions []model.MissionListItem, query string) []model.MissionListItem {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return missions
	}

	var out []model.MissionListItem
	for _, m := range missions {
		if missionMatches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func missionMatches(m model.MissionListItem, q string) bool {
	if strings.Contains(strings.ToLower(m.Title), q) ||
		strings.Contains(strings.ToLower(m.Description), q) ||
		strings.Contains(strings.ToLower(m.Duration), q) ||
		strings.Contains(strings.ToLower(m.Budget), q) {
		return true
	}
	for _, skill := range m.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

// MissionList holds the mission feed and its search text.
type MissionList struct {
	missions *State[[]model.MissionListItem]
	search   *State[string]
}

// NewMissionList creates a mission list seeded with missions; nil seeds the
// sample set.
func NewMissionList(missions []model.MissionListItem) *MissionList {
	if missions == nil {
		missions = SampleMissions()
	}
	return &MissionList{
		missions: NewState(missions),
		search:   NewState(""),
	}
}

// Missions returns the unfiltered mission list.
func (l *MissionList) Missions() []model.MissionListItem {
	return l.missions.Get()
}

// SetSearch updates the search text.
func (l *MissionList) SetSearch(query string) {
	l.search.set(query)
}

// Search returns the current search text.
func (l *MissionList) Search() string {
	return l.search.Get()
}

// Filtered returns the missions matching the current search text.
func (l *MissionList) Filtered() []model.MissionListItem {
	return FilterMissions(l.missions.Get(), l.search.Get())
}

// SubscribeSearch registers a change listener on the search text.
func (l *MissionList) SubscribeSearch() (<-chan string, func()) {
	return l.search.Subscribe()
}

// MissionForm is the mission creation form state: free-text fields plus a
// skill list with a draft entry.
type MissionForm struct {
	mu sync.Mutex

	title       string
	description string
	duration    string
	budget      string
	skills      []string
	skillDraft  string

	logger *slog.Logger
}

// NewMissionForm creates an empty mission form.
func NewMissionForm(logger *slog.Logger) *MissionForm {
	if logger == nil {
		logger = slog.Default()
	}
	return &MissionForm{logger: logger}
}

// SetTitle sets the mission title.
func (f *MissionForm) SetTitle(v string) { f.setField(&f.title, v) }

// SetDescription sets the mission description.
func (f *MissionForm) SetDescription(v string) { f.setField(&f.description, v) }

// SetDuration sets the mission duration.
func (f *MissionForm) SetDuration(v string) { f.setField(&f.duration, v) }

// SetBudget sets the mission budget.
func (f *MissionForm) SetBudget(v string) { f.setField(&f.budget, v) }

// SetSkillDraft sets the pending skill input.
func (f *MissionForm) SetSkillDraft(v string) { f.setField(&f.skillDraft, v) }

func (f *MissionForm) setField(field *string, v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*field = v
}

// SkillDraft returns the pending skill input.
func (f *MissionForm) SkillDraft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skillDraft
}

// Skills returns a copy of the committed skill list.
func (f *MissionForm) Skills() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.skills...)
}

// AddSkill commits the draft into the skill list: the draft is trimmed,
// then rejected when empty, already present (case-sensitive exact match),
// or the list is at its cap. On success the draft is cleared.
// A rejection leaves both list and draft unchanged.
func (f *MissionForm) AddSkill() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	trimmed := strings.TrimSpace(f.skillDraft)
	if trimmed == "" {
		return &ValidationError{Field: "skill", Reason: "must not be empty"}
	}
	if len(f.skills) >= model.MaxSkills {
		return &ValidationError{Field: "skills", Reason: "limit reached"}
	}
	for _, s := range f.skills {
		if s == trimmed {
			return &ValidationError{Field: "skill", Reason: "already added"}
		}
	}

	f.skills = append(f.skills, trimmed)
	f.skillDraft = ""
	return nil
}

// RemoveSkill removes the skill at index, shifting later entries down.
// An out-of-bounds index is rejected and the list stays unchanged.
func (f *MissionForm) RemoveSkill(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.skills) {
		return &ValidationError{Field: "skill", Reason: "index out of range"}
	}
	f.skills = append(f.skills[:index], f.skills[index+1:]...)
	return nil
}

// BuildMission snapshots the current form into an immutable Mission with a
// freshly generated id.
func (f *MissionForm) BuildMission() model.Mission {
	f.mu.Lock()
	defer f.mu.Unlock()

	return model.Mission{
		ID:          uuid.NewString(),
		Title:       f.title,
		Description: f.description,
		Duration:    f.duration,
		Budget:      f.budget,
		Skills:      append([]string(nil), f.skills...),
	}
}

// Submit builds the mission and logs it. The create-mission endpoint does
// not exist backend-side yet; this mirrors the app, which stops at building
// the value.
func (f *MissionForm) Submit() model.Mission {
	mission := f.BuildMission()
	f.logger.Info("mission created",
		"id", mission.ID,
		"title", mission.Title,
		"skills", mission.Skills,
	)
	return mission
}
