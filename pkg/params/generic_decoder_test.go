package params

import (
	"reflect"
	"testing"

	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/fira"
)

func newGenericDecoderForTest() *GenericDecoder {
	cfg := DeviceConfig{CccSyncCodesLittleEndian: true}
	return NewGenericDecoder(cfg, logging.NewDefaultLoggerFactory())
}

func TestGenericDecoderSpecification(t *testing.T) {
	blob := "C00101" + firaCapsV1Hex + cccCapsHex + "b00101"
	p, err := newGenericDecoderForTest().Specification(parseTlvs(t, blob, 37))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	if !p.HasPowerStatsSupport {
		t.Error("HasPowerStatsSupport = false")
	}
	if p.Fira == nil {
		t.Fatal("Fira = nil")
	}
	checkFiraCapsCommon(t, p.Fira)
	if p.Ccc == nil {
		t.Fatal("Ccc = nil")
	}
	checkCccCapsCommon(t, p.Ccc)
	if p.Radar == nil {
		t.Fatal("Radar = nil")
	}
	if p.Radar.Capabilities == 0 {
		t.Error("Radar.Capabilities = 0")
	}
}

func TestGenericDecoderSpecificationV2(t *testing.T) {
	blob := "C00101" + firaCapsV2Hex + cccCapsHex + "b00101"
	p, err := newGenericDecoderForTest().Specification(parseTlvs(t, blob, 42))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	if p.Fira == nil {
		t.Fatal("Fira = nil")
	}
	if p.Fira.DeviceType != fira.DeviceTypeController {
		t.Errorf("Fira.DeviceType = %d, want controller", p.Fira.DeviceType)
	}
	if want := fira.RangingMethodFlags(0x00FF); p.Fira.RangingMethods != want {
		t.Errorf("Fira.RangingMethods = %#x, want %#x", p.Fira.RangingMethods, want)
	}
	if p.Ccc == nil || p.Radar == nil {
		t.Fatalf("Ccc = %v, Radar = %v, want both decoded", p.Ccc, p.Radar)
	}
}

func TestGenericDecoderSpecificationPartial(t *testing.T) {
	t.Run("no radar", func(t *testing.T) {
		blob := "C00101" + firaCapsV1Hex + cccCapsHex
		p, err := newGenericDecoderForTest().Specification(parseTlvs(t, blob, 36))
		if err != nil {
			t.Fatalf("Specification() error: %v", err)
		}
		if p.Radar != nil {
			t.Errorf("Radar = %+v, want nil", p.Radar)
		}
		if p.Fira == nil || p.Ccc == nil {
			t.Errorf("Fira = %v, Ccc = %v, want both decoded", p.Fira, p.Ccc)
		}
	})
	t.Run("ccc only", func(t *testing.T) {
		p, err := newGenericDecoderForTest().Specification(parseTlvs(t, cccCapsHex, 10))
		if err != nil {
			t.Fatalf("Specification() error: %v", err)
		}
		if p.Fira != nil || p.Radar != nil {
			t.Errorf("Fira = %v, Radar = %v, want nil", p.Fira, p.Radar)
		}
		if p.Ccc == nil {
			t.Fatal("Ccc = nil")
		}
		if want := []int{26, 32}; !reflect.DeepEqual(p.Ccc.SyncCodes, want) {
			t.Errorf("Ccc.SyncCodes = %v, want %v", p.Ccc.SyncCodes, want)
		}
		if p.HasPowerStatsSupport {
			t.Error("HasPowerStatsSupport = true")
		}
	})
}
