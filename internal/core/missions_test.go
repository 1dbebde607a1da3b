package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchify/matchify-core/internal/core"
	"github.com/matchify/matchify-core/internal/domain/model"
)

func TestFilterMissions(t *testing.T) {
	missions := []model.MissionListItem{
		{ID: "1", Title: "Social Media Campaign", Description: "Instagram push", Duration: "3 months", Budget: "€2,500", Skills: []string{"Marketing"}},
		{ID: "2", Title: "Music Video Editing", Description: "Cut for YouTube", Duration: "2 weeks", Budget: "€800", Skills: []string{"Video Editing", "Color Grading"}},
		{ID: "3", Title: "Brand Identity", Description: "Logo and brandbook", Duration: "1 month", Budget: "€1,200", Skills: []string{"Graphic Design"}},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "empty query returns all", query: "", wantIDs: []string{"1", "2", "3"}},
		{name: "whitespace query returns all", query: "   ", wantIDs: []string{"1", "2", "3"}},
		{name: "title match is case-insensitive", query: "MUSIC", wantIDs: []string{"2"}},
		{name: "description match", query: "youtube", wantIDs: []string{"2"}},
		{name: "duration match", query: "3 months", wantIDs: []string{"1"}},
		{name: "budget match", query: "800", wantIDs: []string{"2"}},
		{name: "skill match", query: "grading", wantIDs: []string{"2"}},
		{name: "substring matches across fields", query: "month", wantIDs: []string{"1", "3"}},
		{name: "no match", query: "blockchain", wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.FilterMissions(missions, tt.query)
			ids := make([]string, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			if tt.wantIDs == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterMissionsDoesNotMutateInput(t *testing.T) {
	missions := core.SampleMissions()
	before := make([]string, len(missions))
	for i, m := range missions {
		before[i] = m.Title
	}

	core.FilterMissions(missions, "video")

	for i, m := range missions {
		assert.Equal(t, before[i], m.Title)
	}
}

func TestMissionListSearchFindsFashionCampaign(t *testing.T) {
	list := core.NewMissionList(nil)
	require.Len(t, list.Missions(), 3)

	list.SetSearch("fashion")
	got := list.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Social Media Campaign for Fashion Brand", got[0].Title)

	list.SetSearch("")
	assert.Len(t, list.Filtered(), 3)
}

func TestMissionFormAddSkill(t *testing.T) {
	form := core.NewMissionForm(nil)

	form.SetSkillDraft("  Marketing  ")
	require.NoError(t, form.AddSkill())
	assert.Equal(t, []string{"Marketing"}, form.Skills())
	assert.Empty(t, form.SkillDraft(), "draft clears after a successful add")
}

func TestMissionFormAddSkillRejectsEmptyDraft(t *testing.T) {
	form := core.NewMissionForm(nil)

	form.SetSkillDraft("   ")
	err := form.AddSkill()

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, form.Skills())
}

func TestMissionFormAddSkillRejectsDuplicate(t *testing.T) {
	form := core.NewMissionForm(nil)

	form.SetSkillDraft("Design")
	require.NoError(t, form.AddSkill())

	form.SetSkillDraft("Design")
	err := form.AddSkill()
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Design", form.SkillDraft(), "draft survives a rejection")

	// Duplicate detection is an exact match: a different casing is a
	// different skill.
	form.SetSkillDraft("design")
	require.NoError(t, form.AddSkill())
	assert.Equal(t, []string{"Design", "design"}, form.Skills())
}

func TestMissionFormAddSkillEnforcesCap(t *testing.T) {
	form := core.NewMissionForm(nil)

	for i := 0; i < model.MaxSkills; i++ {
		form.SetSkillDraft("skill-" + strings.Repeat("x", i+1))
		require.NoError(t, form.AddSkill())
	}
	require.Len(t, form.Skills(), model.MaxSkills)

	form.SetSkillDraft("one too many")
	err := form.AddSkill()
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, form.Skills(), model.MaxSkills)
}

func TestMissionFormRemoveSkill(t *testing.T) {
	form := core.NewMissionForm(nil)
	for _, s := range []string{"a", "b", "c"} {
		form.SetSkillDraft(s)
		require.NoError(t, form.AddSkill())
	}

	require.NoError(t, form.RemoveSkill(1))
	assert.Equal(t, []string{"a", "c"}, form.Skills())

	var verr *core.ValidationError
	require.ErrorAs(t, form.RemoveSkill(5), &verr)
	require.ErrorAs(t, form.RemoveSkill(-1), &verr)
	assert.Equal(t, []string{"a", "c"}, form.Skills())
}

func TestMissionFormBuildMission(t *testing.T) {
	form := core.NewMissionForm(nil)
	form.SetTitle("Podcast Editing")
	form.SetDescription("Weekly episode post-production")
	form.SetDuration("6 weeks")
	form.SetBudget("€600")
	form.SetSkillDraft("Audio")
	require.NoError(t, form.AddSkill())

	m1 := form.BuildMission()
	assert.NotEmpty(t, m1.ID)
	assert.Equal(t, "Podcast Editing", m1.Title)
	assert.Equal(t, "Weekly episode post-production", m1.Description)
	assert.Equal(t, "6 weeks", m1.Duration)
	assert.Equal(t, "€600", m1.Budget)
	assert.Equal(t, []string{"Audio"}, m1.Skills)

	// Each build gets a fresh id.
	m2 := form.BuildMission()
	assert.NotEqual(t, m1.ID, m2.ID)

	// The snapshot is detached from the form.
	form.SetSkillDraft("Mixing")
	require.NoError(t, form.AddSkill())
	assert.Equal(t, []string{"Audio"}, m1.Skills)
}

func TestSampleMissionsContent(t *testing.T) {
	missions := core.SampleMissions()
	require.Len(t, missions, 3)

	titles := make([]string, len(missions))
	for i, m := range missions {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Skills)
		titles[i] = m.Title
	}
	assert.Contains(t, titles, "Social Media Campaign for Fashion Brand")
	assert.Contains(t, titles, "Music Video Editing for Indie Artist")
	assert.Contains(t, titles, "Brand Identity for Creative Studio")
}
