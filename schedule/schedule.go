// Package schedule implements the kiln firing-profile DSL: parsing a
// human-authored Schedule into a NormalizedSchedule that can be sampled at
// any point in time, plus YAML-backed persistence for the schedules folder.
package schedule

import (
	"regexp"
	"strings"
)

// Schedule is the human-authored form of a firing profile: a name, an
// optional description, a temperature scale, and an ordered list of
// step-DSL expressions (spec.md section 3).
type Schedule struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Scale       Scale    `json:"scale" yaml:"scale"`
	Steps       []string `json:"steps" yaml:"steps"`
}

// NormalizedSchedule is a Schedule whose steps have been parsed and
// threaded into cumulative-seconds NormalizedSteps.
type NormalizedSchedule struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Scale       Scale            `json:"scale" yaml:"scale"`
	Steps       []NormalizedStep `json:"steps" yaml:"steps"`
}

var legalNameChars = regexp.MustCompile(`^[-_.A-Za-z0-9]+$`)

var reservedNames = map[string]bool{
	"aux": true, "con": true, "nul": true, "prn": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// Sanitize converts a schedule name to its legal-filename form: internal
// whitespace runs become a single underscore. It does not validate the
// result; call ValidateName for that.
func Sanitize(name string) string {
	fields := strings.Fields(name)
	return strings.Join(fields, "_")
}

// ValidateName checks a (pre-sanitized) schedule name against the filename
// legality rules in spec.md section 3: non-empty, only [-_.A-Za-z0-9],
// not a reserved device name (case-insensitive, also matching the
// trailing-$ "clock$" form), and at most 256 characters.
func ValidateName(name string) error {
	if name == "" {
		return invalidNamef("name must not be empty")
	}
	if len(name) > 256 {
		return invalidNamef("name exceeds 256 characters")
	}
	if !legalNameChars.MatchString(name) {
		return invalidNamef("name %q contains characters outside [-_.A-Za-z0-9]", name)
	}
	lower := strings.ToLower(name)
	if lower == "clock$" || reservedNames[lower] {
		return invalidNamef("name %q is a reserved device name", name)
	}
	return nil
}

// Validate checks a Schedule against the rules in spec.md section 4.2: a
// legal sanitized name and at least two parseable steps.
func Validate(s Schedule) error {
	if err := ValidateName(Sanitize(s.Name)); err != nil {
		return err
	}
	if len(s.Steps) < 2 {
		return invalidStepf("not enough steps in schedule, at least 2 required")
	}

	var reasons []string
	var prev *NormalizedStep
	for _, raw := range s.Steps {
		step, err := ParseStep(raw, prev)
		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		prev = &step
	}
	if len(reasons) > 0 {
		return invalidStepf("%s", strings.Join(reasons, "; "))
	}
	return nil
}

// Normalize parses every step of s in order, threading the previous
// NormalizedStep so start_time and hold temperatures anchor correctly, and
// returns the resulting NormalizedSchedule.
func Normalize(s Schedule) (NormalizedSchedule, error) {
	if err := Validate(s); err != nil {
		return NormalizedSchedule{}, err
	}

	steps := make([]NormalizedStep, 0, len(s.Steps))
	var prev *NormalizedStep
	for _, raw := range s.Steps {
		step, err := ParseStep(raw, prev)
		if err != nil {
			return NormalizedSchedule{}, err
		}
		steps = append(steps, step)
		prev = &steps[len(steps)-1]
	}

	return NormalizedSchedule{
		Name:        s.Name,
		Description: s.Description,
		Scale:       s.Scale,
		Steps:       steps,
	}, nil
}

// TotalDuration returns the end time of the schedule's final step, or 0 for
// an empty schedule.
func (n NormalizedSchedule) TotalDuration() uint32 {
	if len(n.Steps) == 0 {
		return 0
	}
	return n.Steps[len(n.Steps)-1].EndTime
}

// TargetTemperature returns the set point in Celsius at time t seconds into
// the run, linearly interpolating within the step that contains t and
// returning 0 once t exceeds the schedule's total duration.
func (n NormalizedSchedule) TargetTemperature(t uint32) float64 {
	total := n.TotalDuration()
	if t > total {
		return 0
	}

	step, ok := n.stepAt(t)
	if !ok {
		return 0
	}

	span := float64(step.EndTime) - float64(step.StartTime)
	if span == 0 {
		return step.StartTemperature
	}
	slope := (step.EndTemperature - step.StartTemperature) / span
	return step.StartTemperature + slope*(float64(t)-float64(step.StartTime))
}

// stepAt returns the earliest step whose [start_time, end_time] window
// contains t.
func (n NormalizedSchedule) stepAt(t uint32) (NormalizedStep, bool) {
	for _, step := range n.Steps {
		if step.StartTime <= t && t <= step.EndTime {
			return step, true
		}
	}
	return NormalizedStep{}, false
}
