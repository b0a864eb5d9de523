package timesheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
)

// NoDataMarker is rendered for day totals with no logged entries, to
// distinguish "nothing logged" from "entries totaling zero".
const NoDataMarker = "—"

// GridRow is the transient view of all dated entries sharing one
// (project, phase) pair. Rebuilt from the entry collection on every render,
// never mutated in place.
type GridRow struct {
	Project project.Project
	Phase   phase.Phase
	// Entries maps "2006-01-02" date keys to the entry for that day.
	Entries map[string]TimeEntry
}

// Total sums the hours of every dated entry in the row.
func (r GridRow) Total() float64 {
	total := 0.0
	for _, entry := range r.Entries {
		total += safeHours(entry.Hours)
	}
	return total
}

// Grid groups a flat entry collection by (project, phase). Row order is the
// first-seen order of matching entries, not sorted by project number.
type Grid struct {
	Rows []GridRow
}

// BuildGrid groups entries by (project_id, phase_id). Entries without both a
// project and a phase association, or whose joined reference data is missing,
// are skipped — they never appear as orphan rows. Duplicate entries for the
// same pair and date overwrite each other, last write wins.
func BuildGrid(entries []TimeEntry) Grid {
	var rows []GridRow
	index := make(map[string]int)

	for _, entry := range entries {
		if entry.ProjectId == 0 || entry.PhaseId == 0 || entry.Project == nil || entry.Phase == nil {
			continue
		}
		key := strconv.Itoa(entry.ProjectId) + "-" + strconv.Itoa(entry.PhaseId)
		i, ok := index[key]
		if !ok {
			rows = append(rows, GridRow{
				Project: *entry.Project,
				Phase:   *entry.Phase,
				Entries: make(map[string]TimeEntry),
			})
			i = len(rows) - 1
			index[key] = i
		}
		rows[i].Entries[DateKey(entry.Date)] = entry
	}

	return Grid{Rows: rows}
}

// DayTotal sums the hours of every entry logged on the given date, across all
// groups (overhead entries included).
func DayTotal(entries []TimeEntry, date string) float64 {
	total := 0.0
	for _, entry := range entries {
		if DateKey(entry.Date) == date {
			total += safeHours(entry.Hours)
		}
	}
	return total
}

// TotalHours sums the hours of the whole entry collection.
func TotalHours(entries []TimeEntry) float64 {
	total := 0.0
	for _, entry := range entries {
		total += safeHours(entry.Hours)
	}
	return total
}

// safeHours treats non-finite values as zero, mirroring the "unparsable or
// absent counts as 0" aggregation rule.
func safeHours(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return h
}

// FormatHours renders an hour total with two decimal places.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// FormatDayTotal renders a day total, using the no-data marker for zero.
func FormatDayTotal(h float64) string {
	if h == 0 {
		return NoDataMarker
	}
	return FormatHours(h)
}

// ParseHours validates a raw hour value from user input. Accepts real numbers
// in [0, 24]; everything else is ErrInvalidHours.
func ParseHours(raw string) (float64, error) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidHours, raw)
	}
	if hours < 0 || hours > 24 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidHours, hours)
	}
	return hours, nil
}
