package schedule_test

import (
	"testing"

	"github.com/neumaics/caminatus/schedule"
)

func TestParseHold(t *testing.T) {
	out, err := schedule.ParseStep("hold for 30 minutes", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := schedule.NormalizedStep{StartTime: 0, EndTime: 30 * 60, StartTemperature: 0, EndTemperature: 0}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestParseDurationWithAmbient(t *testing.T) {
	out, err := schedule.ParseStep("ambient to 200 over 2 hours", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := schedule.NormalizedStep{StartTime: 0, EndTime: 7200, StartTemperature: 25, EndTemperature: 200}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestParseRate(t *testing.T) {
	out, err := schedule.ParseStep("100 to 120 by 20 per hour", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := schedule.NormalizedStep{StartTime: 0, EndTime: 3600, StartTemperature: 100, EndTemperature: 120}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestParseRateWithDegreesPer(t *testing.T) {
	out, err := schedule.ParseStep("100 to 300 by 100 degrees per hour", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.EndTime != 7200 {
		t.Errorf("expected 7200 seconds, got %d", out.EndTime)
	}
}

func TestParseScaleConversion(t *testing.T) {
	out, err := schedule.ParseStep("32F to 273.15K over 1 hour", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.StartTemperature != 0 || out.EndTemperature != 0 {
		t.Errorf("expected both temperatures to be 0C, got start=%v end=%v", out.StartTemperature, out.EndTemperature)
	}
}

func TestParseStepChaining(t *testing.T) {
	first, err := schedule.ParseStep("0 to 100 over 1 hour", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := schedule.ParseStep("hold for 30 minutes", &first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.StartTime != 3600 || second.EndTime != 3600+1800 {
		t.Errorf("expected hold anchored at previous end time, got %+v", second)
	}
	if second.StartTemperature != 100 || second.EndTemperature != 100 {
		t.Errorf("expected hold temperature to match previous end temperature, got %+v", second)
	}
}

func TestParseStepRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"hold for",
		"100 to 200 sideways 1 hour",
		"100 to 200 by 0 per hour",
		"-5 to 100 over 1 hour",
		"100 to 200 over 1 fortnight",
	}
	for _, c := range cases {
		if _, err := schedule.ParseStep(c, nil); err == nil {
			t.Errorf("expected error parsing %q", c)
		}
	}
}

func TestParseStepCaseInsensitiveAndTrailingPeriod(t *testing.T) {
	out, err := schedule.ParseStep("Hold FOR 1 Hour.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.EndTime != 3600 {
		t.Errorf("expected 3600 seconds, got %d", out.EndTime)
	}
}
