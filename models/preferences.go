package models

// Preferences holds the per-user display settings persisted between sessions.
type Preferences struct {
	Theme        string `json:"theme"`
	ViewMode     string `json:"viewMode"` // grid | list
	ItemsPerPage int    `json:"itemsPerPage"`
	Language     string `json:"language"`
}

// DefaultPreferences returns the settings applied before the user changes anything.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        "light",
		ViewMode:     "grid",
		ItemsPerPage: 20,
		Language:     "en-US",
	}
}

// Merge overlays the non-zero fields of p2 onto p and returns the result.
func (p Preferences) Merge(p2 Preferences) Preferences {
	if p2.Theme != "" {
		p.Theme = p2.Theme
	}
	if p2.ViewMode != "" {
		p.ViewMode = p2.ViewMode
	}
	if p2.ItemsPerPage != 0 {
		p.ItemsPerPage = p2.ItemsPerPage
	}
	if p2.Language != "" {
		p.Language = p2.Language
	}
	return p
}
