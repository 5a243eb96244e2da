package params

import (
	"reflect"
	"testing"

	"github.com/openuwb/uwb/pkg/ccc"
)

// cccRangingStartedHex is the controller's response after a CCC session
// start, 5 records.
const cccRangingStartedHex = "0a0402000100" + "a01001000200000000000000000000000000" +
	"a1080200010002000100" + "090402000100" + "140101"

// cccCapsHex is a CCC capability blob, 10 records.
const cccCapsHex = "a00111" + "a10400000082" + "a20168" + "a30103" + "a4020102" +
	"a50100" + "a60112" + "a7040a000000" + "a80401000000" + "a90401000000"

// cccCapsPrioritizedHex swaps the channel mask for a prioritized channel
// list, 10 records.
const cccCapsPrioritizedHex = "a00111" + "a10400000082" + "a20168" + "a4020102" +
	"a50100" + "a60112" + "a7040a000000" + "a80401000000" + "a90401000000" + "aa020509"

func TestCccDecoderRangingStarted(t *testing.T) {
	p, err := NewCccDecoder(DeviceConfig{}).RangingStarted(parseTlvs(t, cccRangingStartedHex, 5))
	if err != nil {
		t.Fatalf("RangingStarted() error: %v", err)
	}
	if p.StartingStsIndex != 0x00010002 {
		t.Errorf("StartingStsIndex = %#x, want 0x00010002", p.StartingStsIndex)
	}
	if p.HopModeKey != 0x00020001 {
		t.Errorf("HopModeKey = %#x, want 0x00020001", p.HopModeKey)
	}
	if p.UwbTime0 != 0x0001000200010002 {
		t.Errorf("UwbTime0 = %#x, want 0x0001000200010002", p.UwbTime0)
	}
	if want := uint32(0x00010002) / ccc.RanMultiplierToIntervalMs; p.RanMultiplier != want {
		t.Errorf("RanMultiplier = %d, want %d", p.RanMultiplier, want)
	}
	if p.SyncCodeIndex != 1 {
		t.Errorf("SyncCodeIndex = %d, want 1", p.SyncCodeIndex)
	}
}

func checkCccCapsCommon(t *testing.T, p *ccc.SpecificationParams) {
	t.Helper()
	if want := []int{3, 9}; !reflect.DeepEqual(p.ChapsPerSlot, want) {
		t.Errorf("ChapsPerSlot = %v, want %v", p.ChapsPerSlot, want)
	}
	if want := []int{26, 32}; !reflect.DeepEqual(p.SyncCodes, want) {
		t.Errorf("SyncCodes = %v, want %v", p.SyncCodes, want)
	}
	wantModes := []ccc.HoppingConfigMode{ccc.HoppingConfigModeContinuous, ccc.HoppingConfigModeAdaptive}
	if !reflect.DeepEqual(p.HoppingConfigModes, wantModes) {
		t.Errorf("HoppingConfigModes = %v, want %v", p.HoppingConfigModes, wantModes)
	}
	if want := []ccc.HoppingSequence{ccc.HoppingSequenceAes}; !reflect.DeepEqual(p.HoppingSequences, want) {
		t.Errorf("HoppingSequences = %v, want %v", p.HoppingSequences, want)
	}
	if want := []ccc.ProtocolVersion{{Major: 1, Minor: 2}}; !reflect.DeepEqual(p.ProtocolVersions, want) {
		t.Errorf("ProtocolVersions = %v, want %v", p.ProtocolVersions, want)
	}
	if want := []ccc.UwbConfig{ccc.UwbConfig0}; !reflect.DeepEqual(p.UwbConfigs, want) {
		t.Errorf("UwbConfigs = %v, want %v", p.UwbConfigs, want)
	}
	wantCombos := []ccc.PulseShapeCombo{{Initiator: 1, Responder: 2}}
	if !reflect.DeepEqual(p.PulseShapeCombos, wantCombos) {
		t.Errorf("PulseShapeCombos = %v, want %v", p.PulseShapeCombos, wantCombos)
	}
	if p.RanMultiplier != 10 {
		t.Errorf("RanMultiplier = %d, want 10", p.RanMultiplier)
	}
	if p.MaxRangingSessionNumber != 1 {
		t.Errorf("MaxRangingSessionNumber = %d, want 1", p.MaxRangingSessionNumber)
	}
	if p.MinUwbInitiationTimeMs != 1 {
		t.Errorf("MinUwbInitiationTimeMs = %d, want 1", p.MinUwbInitiationTimeMs)
	}
}

func TestCccDecoderSpecification(t *testing.T) {
	cfg := DeviceConfig{CccSyncCodesLittleEndian: true}
	p, err := NewCccDecoder(cfg).Specification(parseTlvs(t, cccCapsHex, 10))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	checkCccCapsCommon(t, p)
	if want := []int{5, 9}; !reflect.DeepEqual(p.Channels, want) {
		t.Errorf("Channels = %v, want %v", p.Channels, want)
	}
	if p.PrioritizedChannels != nil {
		t.Errorf("PrioritizedChannels = %v, want none", p.PrioritizedChannels)
	}
}

func TestCccDecoderSpecificationPrioritizedChannels(t *testing.T) {
	cfg := DeviceConfig{CccSyncCodesLittleEndian: true}
	p, err := NewCccDecoder(cfg).Specification(parseTlvs(t, cccCapsPrioritizedHex, 10))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	checkCccCapsCommon(t, p)
	if p.Channels != nil {
		t.Errorf("Channels = %v, want none", p.Channels)
	}
	if want := []int{5, 9}; !reflect.DeepEqual(p.PrioritizedChannels, want) {
		t.Errorf("PrioritizedChannels = %v, want %v", p.PrioritizedChannels, want)
	}
}

func TestCccDecoderSyncCodesBigEndian(t *testing.T) {
	// The same bitmap read big-endian selects codes 2 and 8.
	p, err := NewCccDecoder(DeviceConfig{}).Specification(parseTlvs(t, cccCapsHex, 10))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	if want := []int{2, 8}; !reflect.DeepEqual(p.SyncCodes, want) {
		t.Errorf("SyncCodes = %v, want %v", p.SyncCodes, want)
	}
}

func TestCccDecoderSpecificationMissingRecord(t *testing.T) {
	// No version record.
	data := "a00111" + "a10400000082" + "a20168" + "a30103"
	if _, err := NewCccDecoder(DeviceConfig{}).Specification(parseTlvs(t, data, 4)); err == nil {
		t.Fatal("Specification() decoded a blob without versions")
	}
}
