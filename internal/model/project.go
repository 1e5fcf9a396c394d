package model

import (
	"github.com/dori/worktrack/internal/timeparse"
)

// ProjectTotal is the time logged against one project tag
type ProjectTotal struct {
	Project string `json:"project"`
	Minutes int    `json:"minutes"`
	Tasks   int    `json:"tasks"`
}

// Duration renders the total as HH:MM
func (p *ProjectTotal) Duration() string {
	return timeparse.FormatDuration(minutes(p.Minutes))
}

// Totals groups records by project, in order of first appearance
func Totals(records []Record) []ProjectTotal {
	var totals []ProjectTotal
	index := make(map[string]int)
	for i := range records {
		r := &records[i]
		pos, ok := index[r.ProjectID]
		if !ok {
			pos = len(totals)
			index[r.ProjectID] = pos
			totals = append(totals, ProjectTotal{Project: r.ProjectID})
		}
		totals[pos].Minutes += r.Minutes()
		totals[pos].Tasks++
	}
	return totals
}
