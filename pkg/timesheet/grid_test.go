package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
)

var (
	libraryProject = &project.Project{Id: 1, ProjectNumber: "2024-100", Name: "Library", ClientName: "City of Springfield"}
	museumProject  = &project.Project{Id: 2, ProjectNumber: "2024-200", Name: "Museum Annex", ClientName: "Arts Trust"}
	sdPhase        = &phase.Phase{Id: 10, PhaseCode: "SD", Name: "Schematic Design", DisplayOrder: 1}
	ddPhase        = &phase.Phase{Id: 11, PhaseCode: "DD", Name: "Design Development", DisplayOrder: 2}
)

func entry(projectId, phaseId int, day string, hours float64) TimeEntry {
	e := TimeEntry{ProjectId: projectId, PhaseId: phaseId, Date: date(day), Hours: hours}
	switch projectId {
	case 1:
		e.Project = libraryProject
	case 2:
		e.Project = museumProject
	}
	switch phaseId {
	case 10:
		e.Phase = sdPhase
	case 11:
		e.Phase = ddPhase
	}
	return e
}

func TestBuildGrid(t *testing.T) {
	t.Run("groups entries by project and phase pair", func(t *testing.T) {
		// given
		entries := []TimeEntry{
			entry(1, 10, "2024-01-01", 4),
			entry(1, 10, "2024-01-02", 2),
			entry(1, 11, "2024-01-01", 3),
			entry(2, 10, "2024-01-01", 1),
		}

		// when
		grid := BuildGrid(entries)

		// then
		require.Len(t, grid.Rows, 3)
		assert.Len(t, grid.Rows[0].Entries, 2)
		assert.Len(t, grid.Rows[1].Entries, 1)
		assert.Len(t, grid.Rows[2].Entries, 1)
	})

	t.Run("same project in two phases yields two distinct rows", func(t *testing.T) {
		grid := BuildGrid([]TimeEntry{
			entry(1, 10, "2024-01-01", 4),
			entry(1, 11, "2024-01-01", 3),
		})

		require.Len(t, grid.Rows, 2)
		assert.Equal(t, "SD", grid.Rows[0].Phase.PhaseCode)
		assert.Equal(t, "DD", grid.Rows[1].Phase.PhaseCode)
	})

	t.Run("rows appear in first-seen entry order", func(t *testing.T) {
		grid := BuildGrid([]TimeEntry{
			entry(2, 10, "2024-01-01", 1),
			entry(1, 10, "2024-01-01", 4),
			entry(2, 10, "2024-01-02", 2),
		})

		require.Len(t, grid.Rows, 2)
		assert.Equal(t, "2024-200", grid.Rows[0].Project.ProjectNumber)
		assert.Equal(t, "2024-100", grid.Rows[1].Project.ProjectNumber)
	})

	t.Run("grouping twice yields the same rows", func(t *testing.T) {
		entries := []TimeEntry{
			entry(1, 10, "2024-01-01", 4),
			entry(2, 11, "2024-01-02", 3),
		}

		assert.Equal(t, BuildGrid(entries), BuildGrid(entries))
	})

	t.Run("entries without both associations are skipped", func(t *testing.T) {
		overheadEntry := TimeEntry{OverheadCategoryId: 5, Date: date("2024-01-01"), Hours: 2}
		projectOnly := TimeEntry{ProjectId: 1, Project: libraryProject, Date: date("2024-01-01"), Hours: 1}

		grid := BuildGrid([]TimeEntry{overheadEntry, projectOnly, entry(1, 10, "2024-01-01", 4)})

		require.Len(t, grid.Rows, 1)
		assert.Equal(t, "2024-100", grid.Rows[0].Project.ProjectNumber)
	})

	t.Run("entries with a dangling reference are skipped", func(t *testing.T) {
		dangling := TimeEntry{ProjectId: 99, PhaseId: 10, Phase: sdPhase, Date: date("2024-01-01"), Hours: 8}

		grid := BuildGrid([]TimeEntry{dangling})

		assert.Empty(t, grid.Rows)
	})
}

func TestAggregation(t *testing.T) {
	entries := []TimeEntry{
		entry(1, 10, "2024-01-01", 4),
		entry(1, 10, "2024-01-02", 2.5),
		entry(1, 11, "2024-01-01", 3),
		entry(2, 10, "2024-01-02", 1),
	}

	t.Run("row total sums the row's dated entries", func(t *testing.T) {
		grid := BuildGrid(entries)

		assert.InDelta(t, 6.5, grid.Rows[0].Total(), 0.0001)
		assert.InDelta(t, 3.0, grid.Rows[1].Total(), 0.0001)
	})

	t.Run("day total sums all groups for one date", func(t *testing.T) {
		assert.InDelta(t, 7.0, DayTotal(entries, "2024-01-01"), 0.0001)
		assert.InDelta(t, 3.5, DayTotal(entries, "2024-01-02"), 0.0001)
	})

	t.Run("day total includes overhead entries", func(t *testing.T) {
		withOverhead := append([]TimeEntry{}, entries...)
		withOverhead = append(withOverhead, TimeEntry{OverheadCategoryId: 5, Date: date("2024-01-01"), Hours: 2})

		assert.InDelta(t, 9.0, DayTotal(withOverhead, "2024-01-01"), 0.0001)
	})

	t.Run("grand total is independent of entry order", func(t *testing.T) {
		reversed := make([]TimeEntry, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			reversed = append(reversed, entries[i])
		}

		assert.Equal(t, TotalHours(entries), TotalHours(reversed))
		assert.InDelta(t, 10.5, TotalHours(entries), 0.0001)
	})

	t.Run("day with no entries totals zero and renders the marker", func(t *testing.T) {
		assert.Zero(t, DayTotal(entries, "2024-01-03"))
		assert.Equal(t, NoDataMarker, FormatDayTotal(0))
		assert.Equal(t, "3.50", FormatDayTotal(3.5))
	})
}

func TestParseHours(t *testing.T) {
	t.Run("accepts values within the daily bounds", func(t *testing.T) {
		for _, raw := range []string{"0", "24", "12.5", "8", " 7.25 "} {
			_, err := ParseHours(raw)
			assert.NoError(t, err, "expected %q to parse", raw)
		}
	})

	t.Run("parses decimal values exactly", func(t *testing.T) {
		hours, err := ParseHours("12.5")

		require.NoError(t, err)
		assert.Equal(t, 12.5, hours)
	})

	t.Run("rejects values outside the daily bounds", func(t *testing.T) {
		for _, raw := range []string{"-1", "24.01", "100"} {
			_, err := ParseHours(raw)
			assert.ErrorIs(t, err, ErrInvalidHours, "expected %q to be rejected", raw)
		}
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		for _, raw := range []string{"abc", "", "1,5", "NaN", "Inf"} {
			_, err := ParseHours(raw)
			assert.ErrorIs(t, err, ErrInvalidHours, "expected %q to be rejected", raw)
		}
	})
}
