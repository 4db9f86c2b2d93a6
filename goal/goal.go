// Package goal selects what happens to a built docker image after
// packaging: it is either saved to a local archive or pushed to a
// registry.
package goal

import "strings"

// Goal is a docker build goal. The zero value is Unknown.
type Goal int

const (
	// Unknown is returned by Of when no goal matches a code.
	Unknown Goal = iota

	// Save exports the image to a local .tar file.
	Save

	// Push pushes the image to a remote registry.
	Push
)

var codes = map[Goal]string{
	Save: "save",
	Push: "push",
}

// All returns every known goal, in declaration order.
func All() []Goal {
	return []Goal{Save, Push}
}

// Of returns the goal whose code equals code, ignoring case.
// It returns Unknown if there is no such goal.
func Of(code string) Goal {
	for _, g := range All() {
		if strings.EqualFold(codes[g], code) {
			return g
		}
	}
	return Unknown
}

// ParseList resolves each code with Of. Codes that match no goal are
// returned in unmatched, in input order, for the caller to report.
// Duplicate goals are kept only once.
func ParseList(list []string) (goals []Goal, unmatched []string) {
	seen := make(map[Goal]bool)
	for _, code := range list {
		g := Of(strings.TrimSpace(code))
		if g == Unknown {
			unmatched = append(unmatched, code)
			continue
		}
		if !seen[g] {
			seen[g] = true
			goals = append(goals, g)
		}
	}
	return goals, unmatched
}

// Code returns the lower-case code of g, or "" for Unknown.
func (g Goal) Code() string { return codes[g] }

func (g Goal) String() string {
	if code := g.Code(); code != "" {
		return code
	}
	return "unknown"
}
