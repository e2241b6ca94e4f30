package kiln

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// Thermocouple is the capability interface the control loop depends on.
// I2C transport is out of scope for this module (spec.md section 6), so
// callers outside of tests supply a real implementation wired to actual
// hardware; MCP9600 provides the register decode math only.
type Thermocouple interface {
	// Read returns the hot-junction temperature in Celsius.
	Read(ctx context.Context) (float64, error)
	// ReadInternal returns the cold-junction (ambient/reference) temperature in Celsius.
	ReadInternal(ctx context.Context) (float64, error)
}

// Hot-junction and alert registers use the top bit of the upper byte as
// sign; cold-junction registers use the top four bits as sign, per the
// MCP9600 datasheet (TABLE 5-1: SUMMARY OF REGISTERS AND BIT ASSIGNMENTS).
const (
	hotJunctionSignMask  byte = 0x7F
	coldJunctionSignMask byte = 0x0F
)

// RegisterReader performs the raw two-byte I2C register read an MCP9600
// decode needs. It is supplied by a hardware-specific transport; this
// module never opens an I2C bus directly.
type RegisterReader interface {
	ReadRegister(ctx context.Context, register byte) ([2]byte, error)
}

// MCP9600 decodes hot- and cold-junction registers from an MCP9600/MCP960X
// thermocouple amplifier, per the original's sensor::mcp960x module. The
// register math is reproduced directly (sign-bit extraction, masked upper
// byte shifted into a 12.4 fixed-point value, 1/256 LSB scaling) since no
// thermocouple-decode library appears anywhere in the retrieval pack.
type MCP9600 struct {
	reader RegisterReader

	hotJunctionRegister  byte
	coldJunctionRegister byte

	// MaxRetries bounds the number of backoff-retried reads before Read
	// gives up and returns the underlying transport error.
	MaxRetries uint64
}

// NewMCP9600 returns a decoder reading from reader's I2C registers 0x00
// (hot junction) and 0x02 (cold junction).
func NewMCP9600(reader RegisterReader) *MCP9600 {
	return &MCP9600{
		reader:               reader,
		hotJunctionRegister:  0x00,
		coldJunctionRegister: 0x02,
		MaxRetries:           3,
	}
}

func (m *MCP9600) Read(ctx context.Context) (float64, error) {
	return m.readWithRetry(ctx, m.hotJunctionRegister, hotJunctionSignMask)
}

func (m *MCP9600) ReadInternal(ctx context.Context) (float64, error) {
	return m.readWithRetry(ctx, m.coldJunctionRegister, coldJunctionSignMask)
}

func (m *MCP9600) readWithRetry(ctx context.Context, register byte, signMask byte) (float64, error) {
	var out float64

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second

	retries := uint64(0)
	op := func() error {
		bytes, err := m.reader.ReadRegister(ctx, register)
		if err != nil {
			retries++
			if retries > m.MaxRetries {
				return backoff.Permanent(err)
			}
			return err
		}
		out = decodeTemperature(bytes, signMask)
		return nil
	}

	if err := backoff.Retry(op, b); err != nil {
		return 0, err
	}
	return out, nil
}

// decodeTemperature converts a two-byte MCP9600 temperature register into
// its signed floating-point Celsius value. The upper byte, masked to
// signMask bits, holds 16C..1024C weights; the lower byte holds
// 0.0625C..8C weights, scaled by 1/256 after both bytes are left-shifted
// four bits to share a common fixed-point base.
func decodeTemperature(register [2]byte, signMask byte) float64 {
	upper, lower := register[0], register[1]

	sign := 1.0
	if upper&0x80 != 0 {
		sign = -1.0
	}

	maskedUpper := uint16(upper&signMask) << 4
	shiftedLower := uint16(lower) << 4

	whole := float64(maskedUpper)
	fraction := float64(shiftedLower) / 256.0

	return sign * (whole + fraction)
}
