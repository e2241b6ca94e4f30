package schedule_test

import (
	"testing"

	"github.com/neumaics/caminatus/schedule"
)

func normalize(t *testing.T, s schedule.Schedule) schedule.NormalizedSchedule {
	t.Helper()
	n, err := schedule.Normalize(s)
	if err != nil {
		t.Fatalf("unexpected normalize error: %v", err)
	}
	return n
}

func TestNormalizeSimpleDuration(t *testing.T) {
	s := schedule.Schedule{
		Name:  "simple",
		Scale: schedule.Celsius,
		Steps: []string{
			"0 to 100 over 1 hour",
			"100 to 200 over 1 hour",
		},
	}
	n := normalize(t, s)

	cases := []struct {
		at   uint32
		want float64
	}{
		{0, 0}, {1800, 50}, {3600, 100}, {5400, 150}, {7200, 200}, {10800, 0},
	}
	for _, c := range cases {
		got := n.TargetTemperature(c.at)
		if got != c.want {
			t.Errorf("target(%d) = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestNormalizeAmbientAndHold(t *testing.T) {
	s := schedule.Schedule{
		Name:  "ambient-hold",
		Scale: schedule.Celsius,
		Steps: []string{
			"ambient to 200 over 2 hours",
			"hold for 30 minutes",
		},
	}
	n := normalize(t, s)

	want := []schedule.NormalizedStep{
		{StartTime: 0, EndTime: 7200, StartTemperature: 25, EndTemperature: 200},
		{StartTime: 7200, EndTime: 9000, StartTemperature: 200, EndTemperature: 200},
	}
	if len(n.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(n.Steps))
	}
	for i := range want {
		if n.Steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, n.Steps[i], want[i])
		}
	}
	if got := n.TargetTemperature(7200); got != 200 {
		t.Errorf("target(7200) = %v, want 200", got)
	}
	if got := n.TargetTemperature(8100); got != 200 {
		t.Errorf("target(8100) = %v, want 200", got)
	}
}

func TestTargetTemperatureBeyondDuration(t *testing.T) {
	s := schedule.Schedule{
		Name:  "short",
		Scale: schedule.Celsius,
		Steps: []string{"0 to 100 over 1 hour", "hold for 1 minute"},
	}
	n := normalize(t, s)
	if got := n.TargetTemperature(n.TotalDuration() + 1); got != 0 {
		t.Errorf("expected 0 past total duration, got %v", got)
	}
}

func TestValidateRejectsTooFewSteps(t *testing.T) {
	s := schedule.Schedule{Name: "too-short", Scale: schedule.Celsius, Steps: []string{"hold for 1 hour"}}
	if err := schedule.Validate(s); err == nil {
		t.Error("expected error for schedule with fewer than 2 steps")
	}
}

func TestSanitizeName(t *testing.T) {
	if got := schedule.Sanitize("with spaces too"); got != "with_spaces_too" {
		t.Errorf("got %q", got)
	}
}

func TestValidateNameRejectsReservedAndIllegal(t *testing.T) {
	if err := schedule.ValidateName("nul"); err == nil {
		t.Error("expected reserved-name error for 'nul'")
	}
	if err := schedule.ValidateName("bad@name"); err == nil {
		t.Error("expected illegal-character error for 'bad@name'")
	}
	if err := schedule.ValidateName("valid-name_1.2"); err != nil {
		t.Errorf("expected valid name to pass, got %v", err)
	}
}
