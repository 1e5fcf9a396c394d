package classify

import (
	"strings"
)

// Other is returned when no category keyword matches.
const Other = "Other"

// Category is a project tag together with the keywords that suggest it.
type Category struct {
	Name     string
	Keywords []string
}

// categories is ordered: when a description matches several categories,
// the earliest one wins.
var categories = []Category{
	{"GSU meeting/Training", []string{"gsu", "meeting", "training"}},
	{"Onboarding", []string{"onboard", "orientation"}},
	{"Life Review", []string{"life", "review"}},
	{"LASSI Review", []string{"lassi"}},
	{"Recruitment", []string{"recruit", "admission"}},
	{"Student", []string{"student"}},
	{"Coaching", []string{"coach"}},
	{"Tutoring", []string{"tutor"}},
	{"Trio Project Assistance", []string{"trio", "project", "assist"}},
	{"Administrative", []string{"admin", "paperwork", "documentation"}},
	{"Trio Team Meeting", []string{"team", "meeting"}},
	{"Work Assistance", []string{"work", "assist"}},
	{"Group Coaching", []string{"group", "coach"}},
	{"Cultural Events", []string{"cultural", "event"}},
	{"Team Collaboration", []string{"collaboration", "collab"}},
	{"Success Workshop", []string{"success", "workshop"}},
	{"Trio Training", []string{"trio", "training"}},
	{Other, nil},
}

// Suggest returns the first category with a keyword contained in the
// lowercased description, or Other.
func Suggest(description string) string {
	text := strings.ToLower(description)
	for _, c := range categories {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				return c.Name
			}
		}
	}
	return Other
}

// Categories returns all category names in precedence order.
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// Table returns a copy of the category table.
func Table() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// IsKnown reports whether name is one of the predefined categories.
// Free-text project tags are still accepted everywhere.
func IsKnown(name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

const (
	ReportAdministrative = "Administrative Task"
	ReportOther          = "Other"
)

// ReportCategory is the "Administrative Task or Other" column value for a
// completed task.
func ReportCategory(description string) string {
	if strings.Contains(strings.ToLower(description), "admin") {
		return ReportAdministrative
	}
	return ReportOther
}
