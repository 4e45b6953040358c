// Package badge maps credential lifecycle statuses onto the display metadata
// every surface renders them with. Keeping the lookup in one place stops the
// color/icon tables from drifting between views.
package badge

// Badge is the render hint for one affiliation status.
type Badge struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

var statusBadges = map[string]Badge{
	"active":    {Color: "green", Icon: "check-circle", Label: "Active"},
	"inactive":  {Color: "gray", Icon: "minus-circle", Label: "Inactive"},
	"suspended": {Color: "red", Icon: "x-circle", Label: "Suspended"},
	"expired":   {Color: "orange", Icon: "clock", Label: "Expired"},
}

var unknownBadge = Badge{Color: "gray", Icon: "help-circle", Label: "Unknown"}

// ForStatus returns the badge for an affiliation status. Unrecognized values
// get a neutral badge rather than an error; the server is authoritative for
// the status set and older clients must keep rendering.
func ForStatus(status string) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return unknownBadge
}

// ForClubStatus returns the badge for a credential's club relationship.
func ForClubStatus(clubStatus string) Badge {
	switch clubStatus {
	case "club_member":
		return Badge{Color: "blue", Icon: "users", Label: "Club Member"}
	case "independent":
		return Badge{Color: "gray", Icon: "user", Label: "Independent"}
	default:
		return unknownBadge
	}
}
