package kiln_test

import (
	"context"
	"testing"

	"github.com/neumaics/caminatus/kiln"
)

type fakeRegisterReader struct {
	registers map[byte][2]byte
}

func (f *fakeRegisterReader) ReadRegister(ctx context.Context, register byte) ([2]byte, error) {
	return f.registers[register], nil
}

func TestMCP9600DecodesHotJunction(t *testing.T) {
	cases := []struct {
		bytes [2]byte
		want  float64
	}{
		{[2]byte{0x40, 0x00}, 1024.0},
		{[2]byte{0xC0, 0x00}, -1024.0},
		{[2]byte{0x00, 0x01}, 0.0625},
		{[2]byte{0x00, 0x00}, 0.0},
	}
	for _, c := range cases {
		reader := &fakeRegisterReader{registers: map[byte][2]byte{0x00: c.bytes}}
		m := kiln.NewMCP9600(reader)
		got, err := m.Read(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Errorf("Read() with register %v = %v, want %v", c.bytes, got, c.want)
		}
	}
}

func TestMCP9600DecodesColdJunction(t *testing.T) {
	reader := &fakeRegisterReader{registers: map[byte][2]byte{0x02: {0x08, 0x00}}}
	m := kiln.NewMCP9600(reader)
	got, err := m.ReadInternal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 128.0 {
		t.Errorf("ReadInternal() = %v, want 128.0", got)
	}
}
