package params

import (
	"testing"

	"github.com/openuwb/uwb/pkg/radar"
)

func TestRadarDecoderSpecification(t *testing.T) {
	p, err := NewRadarDecoder().Specification(parseTlvs(t, "b00101", 1))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	if !p.Capabilities.Has(radar.CapRadarSweepSamplesSupport) {
		t.Error("Capabilities missing sweep samples support")
	}
}

func TestRadarDecoderSpecificationUnsupported(t *testing.T) {
	p, err := NewRadarDecoder().Specification(parseTlvs(t, "b00100", 1))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	if p.Capabilities != 0 {
		t.Errorf("Capabilities = %#x, want 0", p.Capabilities)
	}
}

func TestRadarDecoderSpecificationMissingRecord(t *testing.T) {
	if _, err := NewRadarDecoder().Specification(parseTlvs(t, "b10101", 1)); err == nil {
		t.Fatal("Specification() decoded a blob without the radar record")
	}
}
