//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// TalentProfile is the backend's authoritative view of a talent account.
// JSON field names match what the talent endpoints emit; optional fields are
// pointers so "absent" and "empty" stay distinguishable.
//
// The profile is always replaced wholesale with the server's copy after a
// successful fetch, update, or image upload. The client never merges partial
// edits locally, so server-computed fields (follower counts, image URLs)
// cannot diverge.
type TalentProfile struct {
	ID              string   `json:"id"`
	Name            *string  `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Phone           *string  `json:"phone"`
	Bio             *string  `json:"bio"`
	Location        *string  `json:"location"`
	ProfileImage    *string  `json:"profileImage"`
	BannerImage     *string  `json:"bannerImage"`
	Followers       *int     `json:"followers"`
	Following       *int     `json:"following"`
	PortfolioImages []string `json:"portfolioImages"`
}

// DisplayName returns the profile name, falling back to the email when the
// backend has no name on file.
func (p TalentProfile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Email
}
