//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// MaxSkills is the maximum number of distinct skills a mission may carry.
const MaxSkills = 6

// Mission is a mission created through the mission form. The ID is generated
// client-side when the form is built into a mission value.
type Mission struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Budget      string   `json:"budget"`
	Skills      []string `json:"skills"`
}

// MissionListItem is the read model shown on the mission list screen.
// It carries the same shape as Mission plus a stable ID used as the list key;
// keeping it separate lets the list evolve independently of the form.
type MissionListItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Budget      string   `json:"budget"`
	Skills      []string `json:"skills"`
}
