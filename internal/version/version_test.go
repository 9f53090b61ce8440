package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIDFor(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch date", date: "2026-01-01", expected: 0},
		{name: "next day after epoch", date: "2026-01-02", expected: 1},
		{name: "one year later", date: "2027-01-01", expected: 365},
		{name: "across a leap year", date: "2029-01-01", expected: 1096},
		{name: "invalid format", date: "01/02/2026", wantError: true},
		{name: "empty date", date: "", wantError: true},
		{name: "before epoch", date: "2025-12-31", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildIDFor(tt.date)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInfoAndString(t *testing.T) {
	oldDate, oldCommit := BuildDate, BuildCommit
	t.Cleanup(func() { BuildDate, BuildCommit = oldDate, oldCommit })

	BuildDate = ""
	assert.False(t, Info().Calculated)
	assert.Contains(t, String(), "build unknown")

	BuildDate, BuildCommit = "2026-10-18", "abc123"
	info := Info()
	assert.True(t, info.Calculated)
	assert.Equal(t, 290, info.BuildID)
	assert.Equal(t, "dungeon-kernel build 290 (2026-10-18) commit[abc123] branch[unknown] ci[local]", String())
}
