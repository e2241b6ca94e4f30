package schedule

// Scale is one of the temperature scales a schedule step may be authored in.
type Scale string

// Supported temperature scales. Internal representation is always Celsius.
const (
	Celsius    Scale = "Celsius"
	Fahrenheit Scale = "Fahrenheit"
	Kelvin     Scale = "Kelvin"
)

// Ambient is the literal temperature, in Celsius, the DSL keyword "ambient" means.
const Ambient = 25.0

// toCelsius converts a temperature in the given scale to Celsius.
func toCelsius(value float64, scale Scale) float64 {
	switch scale {
	case Fahrenheit:
		return (value - 32) / 1.8
	case Kelvin:
		return value - 273.15
	default:
		return value
	}
}
