package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForStatus(t *testing.T) {
	tests := []struct {
		status string
		want   Badge
	}{
		{"active", Badge{Color: "green", Icon: "check-circle", Label: "Active"}},
		{"inactive", Badge{Color: "gray", Icon: "minus-circle", Label: "Inactive"}},
		{"suspended", Badge{Color: "red", Icon: "x-circle", Label: "Suspended"}},
		{"expired", Badge{Color: "orange", Icon: "clock", Label: "Expired"}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, ForStatus(tt.status))
		})
	}
}

func TestForStatus_Unknown(t *testing.T) {
	got := ForStatus("frozen")
	assert.Equal(t, "gray", got.Color)
	assert.Equal(t, "Unknown", got.Label)
}

func TestForClubStatus(t *testing.T) {
	assert.Equal(t, "Club Member", ForClubStatus("club_member").Label)
	assert.Equal(t, "Independent", ForClubStatus("independent").Label)
	assert.Equal(t, "Unknown", ForClubStatus("").Label)
}
