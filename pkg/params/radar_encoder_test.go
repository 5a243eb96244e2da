package params

import (
	"bytes"
	"testing"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/radar"
)

func TestRadarEncoderOpenSession(t *testing.T) {
	p, err := radar.NewOpenSessionBuilder().
		SessionID(22).
		Timing(100, 40, 16).
		Channel(5).
		Set(func(p *radar.OpenSessionParams) {
			p.SamplesPerSweep = 128
			p.SweepOffset = -1
			p.RframeConfig = fira.RframeSP3
			p.PreambleDuration = radar.PreambleDurationT16384Symbols
			p.PreambleCodeIndex = 90
			p.SessionPriority = 99
			p.BitsPerSample = radar.BitsPerSample32
			p.PrfMode = fira.PrfModeHprf
			p.NumberOfBursts = 1000
		}).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	buf, err := NewRadarEncoder().Encode(p, fira.ProtocolVersion{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if buf.NumParams() != 12 {
		t.Errorf("NumParams() = %d, want 12", buf.NumParams())
	}
	want := mustHex(t, "000764000000280010"+"010180"+"020105"+"0302ffff"+
		"040103"+"050109"+"06015a"+"070163"+"080100"+"090101"+"0a02e803"+"0b0100")
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Encode() =\n%x\nwant\n%x", buf.Bytes(), want)
	}
}

func TestRadarEncoderRejectsForeignParams(t *testing.T) {
	if _, err := NewRadarEncoder().Encode(struct{}{}, fira.ProtocolVersion{}); err == nil {
		t.Fatal("Encode() accepted foreign params")
	}
}
