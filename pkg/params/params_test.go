package params

import (
	"errors"
	"testing"

	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/radar"
)

func TestNewEncoderDispatch(t *testing.T) {
	for _, p := range []Protocol{ProtocolFira, ProtocolCcc, ProtocolRadar} {
		e, err := NewEncoder(p, DeviceConfig{})
		if err != nil {
			t.Fatalf("NewEncoder(%s) error: %v", p, err)
		}
		if e == nil {
			t.Fatalf("NewEncoder(%s) = nil", p)
		}
	}
	if _, err := NewEncoder(ProtocolGeneric, DeviceConfig{}); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Fatalf("NewEncoder(generic) err = %v, want ErrUnsupportedProtocol", err)
	}
	if _, err := NewEncoder(Protocol(99), DeviceConfig{}); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Fatalf("NewEncoder(99) err = %v, want ErrUnsupportedProtocol", err)
	}
}

func TestNewDecoderDispatch(t *testing.T) {
	lf := logging.NewDefaultLoggerFactory()

	for _, p := range []Protocol{ProtocolFira, ProtocolCcc, ProtocolRadar, ProtocolGeneric} {
		d, err := NewDecoder(p, DeviceConfig{}, lf)
		if err != nil {
			t.Fatalf("NewDecoder(%s) error: %v", p, err)
		}
		if d == nil {
			t.Fatalf("NewDecoder(%s) = nil", p)
		}
	}
	if _, err := NewDecoder(Protocol(99), DeviceConfig{}, lf); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Fatalf("NewDecoder(99) err = %v, want ErrUnsupportedProtocol", err)
	}

	d, err := NewDecoder(ProtocolRadar, DeviceConfig{}, lf)
	if err != nil {
		t.Fatalf("NewDecoder(radar) error: %v", err)
	}
	got, err := d.Capabilities(parseTlvs(t, "b00101", 1))
	if err != nil {
		t.Fatalf("Capabilities() error: %v", err)
	}
	spec, ok := got.(*radar.SpecificationParams)
	if !ok {
		t.Fatalf("Capabilities() = %T, want *radar.SpecificationParams", got)
	}
	if !spec.Capabilities.Has(radar.CapRadarSweepSamplesSupport) {
		t.Error("Capabilities missing sweep samples support")
	}
}
