package models

// Membership levels used by the chamber directory snapshot.
const (
	MembershipLevelStandard = 1
	MembershipLevelSilver   = 2
	MembershipLevelGold     = 3
)

// Member is one chamber-of-commerce directory entry from the static snapshot.
type Member struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	URL             string `json:"url"`
	ImageURL        string `json:"imageurl"`
	MembershipLevel int    `json:"membershipLevel"`
	Description     string `json:"description"`
}

// MembershipLabel returns the display name for the member's level.
func (m Member) MembershipLabel() string {
	switch m.MembershipLevel {
	case MembershipLevelSilver:
		return "Silver Member"
	case MembershipLevelGold:
		return "Gold Member"
	default:
		return "Member"
	}
}
