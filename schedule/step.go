package schedule

import (
	"math"
	"strconv"
	"strings"
)

// NormalizedStep is one piecewise-linear segment of a normalized schedule,
// anchored to cumulative seconds from the start of the run.
type NormalizedStep struct {
	StartTime        uint32  `json:"startTime"`
	EndTime          uint32  `json:"endTime"`
	StartTemperature float64 `json:"startTemperature"`
	EndTemperature   float64 `json:"endTemperature"`
}

// timeUnitSeconds maps a DSL time unit keyword to its length in seconds.
var timeUnitSeconds = map[string]float64{
	"hour": 3600, "hours": 3600,
	"minute": 60, "minutes": 60,
	"second": 1, "seconds": 1,
}

// ParseStep parses one schedule-step DSL expression into a NormalizedStep,
// anchoring start_time/start_temperature against prev (or the zero step when
// prev is nil), per the grammar in spec.md section 4.1.
func ParseStep(input string, prev *NormalizedStep) (NormalizedStep, error) {
	prevEndTime := uint32(0)
	prevEndTemp := 0.0
	if prev != nil {
		prevEndTime = prev.EndTime
		prevEndTemp = prev.EndTemperature
	}

	fields := tokenize(input)
	if len(fields) == 0 {
		return NormalizedStep{}, invalidStepf("empty step")
	}

	if strings.EqualFold(fields[0], "hold") {
		return parseHold(fields, prevEndTime, prevEndTemp)
	}
	return parseDurationOrRate(fields, prevEndTime)
}

// tokenize splits a step expression on whitespace, dropping one optional
// trailing period.
func tokenize(input string) []string {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, ".")
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	return strings.Fields(input)
}

func parseHold(fields []string, prevEndTime uint32, prevEndTemp float64) (NormalizedStep, error) {
	if len(fields) != 4 || !strings.EqualFold(fields[1], "for") {
		return NormalizedStep{}, invalidStepf("malformed hold step %q", strings.Join(fields, " "))
	}
	n, err := parseNonNegative(fields[2])
	if err != nil {
		return NormalizedStep{}, err
	}
	unitSecs, err := parseTimeUnit(fields[3])
	if err != nil {
		return NormalizedStep{}, err
	}
	duration := uint32(math.Round(n * unitSecs))
	return NormalizedStep{
		StartTime:        prevEndTime,
		EndTime:          prevEndTime + duration,
		StartTemperature: prevEndTemp,
		EndTemperature:   prevEndTemp,
	}, nil
}

func parseDurationOrRate(fields []string, prevEndTime uint32) (NormalizedStep, error) {
	if len(fields) < 6 || !strings.EqualFold(fields[1], "to") {
		return NormalizedStep{}, invalidStepf("malformed step %q", strings.Join(fields, " "))
	}

	t1, err := parseTemp(fields[0])
	if err != nil {
		return NormalizedStep{}, err
	}
	t2, err := parseTemp(fields[2])
	if err != nil {
		return NormalizedStep{}, err
	}

	keyword := strings.ToLower(fields[3])
	idx := 4
	var duration uint32

	switch keyword {
	case "over":
		n, err := parseNonNegative(fields[idx])
		if err != nil {
			return NormalizedStep{}, err
		}
		idx++
		unitSecs, err := parseTimeUnit(fields[idx])
		if err != nil {
			return NormalizedStep{}, err
		}
		duration = uint32(math.Round(n * unitSecs))
	case "by":
		rate, err := parseNonNegative(fields[idx])
		if err != nil {
			return NormalizedStep{}, err
		}
		if rate == 0 {
			return NormalizedStep{}, invalidStepf("rate must be greater than zero")
		}
		idx++
		if idx < len(fields) && strings.EqualFold(fields[idx], "degrees") {
			idx++
		}
		if idx < len(fields) && strings.EqualFold(fields[idx], "per") {
			idx++
		}
		if idx >= len(fields) {
			return NormalizedStep{}, invalidStepf("missing time unit in rate step")
		}
		unitSecs, err := parseTimeUnit(fields[idx])
		if err != nil {
			return NormalizedStep{}, err
		}
		delta := math.Abs(t2 - t1)
		duration = uint32(math.Round(delta / rate * unitSecs))
	default:
		return NormalizedStep{}, invalidStepf("expected 'to' ... 'over'/'by', got keyword %q", fields[3])
	}

	return NormalizedStep{
		StartTime:        prevEndTime,
		EndTime:          prevEndTime + duration,
		StartTemperature: t1,
		EndTemperature:   t2,
	}, nil
}

// parseTemp parses a temp token: either the literal "ambient" or a
// non-negative number with an optional trailing scale suffix C|F|K
// (default Celsius).
func parseTemp(token string) (float64, error) {
	if strings.EqualFold(token, "ambient") {
		return Ambient, nil
	}

	scale := Celsius
	numPart := token
	if n := len(token); n > 0 {
		switch token[n-1] {
		case 'C', 'c':
			numPart = token[:n-1]
		case 'F', 'f':
			scale = Fahrenheit
			numPart = token[:n-1]
		case 'K', 'k':
			scale = Kelvin
			numPart = token[:n-1]
		}
	}

	value, err := parseNonNegative(numPart)
	if err != nil {
		return 0, invalidStepf("invalid temperature %q", token)
	}
	return toCelsius(value, scale), nil
}

func parseNonNegative(token string) (float64, error) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value < 0 {
		return 0, invalidStepf("invalid number %q", token)
	}
	return value, nil
}

func parseTimeUnit(token string) (float64, error) {
	secs, ok := timeUnitSeconds[strings.ToLower(token)]
	if !ok {
		return 0, invalidStepf("unknown time unit %q", token)
	}
	return secs, nil
}
