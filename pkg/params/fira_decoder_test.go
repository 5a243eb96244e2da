package params

import (
	"reflect"
	"testing"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/tlv"
)

func parseTlvs(t *testing.T, hexStr string, numParams int) *tlv.DecoderBuffer {
	t.Helper()
	buf := tlv.NewDecoderBuffer(mustHex(t, hexStr), numParams)
	if err := buf.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return buf
}

// Vendor capability records shared by both layout versions.
const firaCapsVendorHex = "E30101" + "E40401010101" + "E50403000000" +
	"E601FF" + "E70101" + "E80401010101" + "E90401000000"

// firaCapsV1Hex is a FiRa 1.x capability blob, 25 records.
const firaCapsV1Hex = "000401010102" + "010401050103" + "020103" + "03011F" +
	"040103" + "050103" + "060100" + "070100" + "080100" + "090101" + "0A0101" +
	"0B0109" + "0C010B" + "0D0103" + "0E0101" + "0F050300000000" + "10010F" +
	"110101" + firaCapsVendorHex

// firaCapsV2Hex is a FiRa 2.0 capability blob, 30 records. The message
// size records are deliberately one byte to exercise tolerant decoding.
const firaCapsV2Hex = "000120" + "010110" + "020401010102" + "030401050103" +
	"040101" + "05020301" + "0602FF00" + "070103" + "080103" + "090100" +
	"0A0100" + "0B0100" + "0C0101" + "0D0101" + "0E0109" + "0F010B" + "100103" +
	"110101" + "12050300000000" + "13010F" + "140101" + "150100" + "160101" +
	firaCapsVendorHex

// checkFiraCapsCommon asserts the record values shared by the v1 and v2
// fixtures.
func checkFiraCapsCommon(t *testing.T, p *fira.SpecificationParams) {
	t.Helper()
	if p.MinPhyVersion != (fira.ProtocolVersion{Major: 1, Minor: 1}) {
		t.Errorf("MinPhyVersion = %v, want 1.1", p.MinPhyVersion)
	}
	if p.MaxPhyVersion != (fira.ProtocolVersion{Major: 1, Minor: 2}) {
		t.Errorf("MaxPhyVersion = %v, want 1.2", p.MaxPhyVersion)
	}
	if p.MinMacVersion != (fira.ProtocolVersion{Major: 1, Minor: 5}) {
		t.Errorf("MinMacVersion = %v, want 1.5", p.MinMacVersion)
	}
	if p.MaxMacVersion != (fira.ProtocolVersion{Major: 1, Minor: 3}) {
		t.Errorf("MaxMacVersion = %v, want 1.3", p.MaxMacVersion)
	}
	if !p.HasControllerInitiatorSupport || !p.HasControleeInitiatorSupport ||
		!p.HasControllerResponderSupport || !p.HasControleeResponderSupport {
		t.Error("expected initiator and responder support for both device types")
	}
	if !p.HasNonDeferredModeSupport {
		t.Error("HasNonDeferredModeSupport = false")
	}
	if want := fira.StsCapStatic | fira.StsCapDynamic; p.StsCaps != want {
		t.Errorf("StsCaps = %#x, want %#x", p.StsCaps, want)
	}
	if want := fira.MultiNodeCapUnicast | fira.MultiNodeCapOneToMany; p.MultiNodeCaps != want {
		t.Errorf("MultiNodeCaps = %#x, want %#x", p.MultiNodeCaps, want)
	}
	if p.HasHoppingSupport {
		t.Error("HasHoppingSupport = true")
	}
	if !p.HasBlockStridingSupport {
		t.Error("HasBlockStridingSupport = false")
	}
	if !p.HasInitiationTimeSupport {
		t.Error("HasInitiationTimeSupport = false")
	}
	if want := []int{5, 9}; !reflect.DeepEqual(p.Channels, want) {
		t.Errorf("Channels = %v, want %v", p.Channels, want)
	}
	if want := fira.RframeCapSP0 | fira.RframeCapSP1 | fira.RframeCapSP3; p.RframeCaps != want {
		t.Errorf("RframeCaps = %#x, want %#x", p.RframeCaps, want)
	}
	if want := fira.CcConstraintK3 | fira.CcConstraintK7; p.CcConstraints != want {
		t.Errorf("CcConstraints = %#x, want %#x", p.CcConstraints, want)
	}
	if p.BprfSets != fira.BprfSet1 {
		t.Errorf("BprfSets = %#x, want %#x", p.BprfSets, fira.BprfSet1)
	}
	if want := fira.HprfSet1 | fira.HprfSet2; p.HprfSets != want {
		t.Errorf("HprfSets = %#x, want %#x", p.HprfSets, want)
	}
	if want := fira.PrfCapBprf | fira.PrfCapHprf; p.PrfCaps != want {
		t.Errorf("PrfCaps = %#x, want %#x", p.PrfCaps, want)
	}
	if want := fira.PsduCap6M81 | fira.PsduCap7M80 | fira.PsduCap27M2 | fira.PsduCap31M2; p.PsduRates != want {
		t.Errorf("PsduRates = %#x, want %#x", p.PsduRates, want)
	}
	if want := fira.AoaCapAzimuth90 | fira.AoaCapAzimuth180 | fira.AoaCapElevation | fira.AoaCapFom; p.AoaCaps != want {
		t.Errorf("AoaCaps = %#x, want %#x", p.AoaCaps, want)
	}
	if !p.HasExtendedMacSupport {
		t.Error("HasExtendedMacSupport = false")
	}

	if !p.HasInterleavingSupport {
		t.Error("HasInterleavingSupport = false")
	}
	if !p.HasRssiReportingSupport {
		t.Error("HasRssiReportingSupport = false")
	}
	if !p.HasDiagnosticsSupport {
		t.Error("HasDiagnosticsSupport = false")
	}
	if p.MinRangingIntervalMs != 0x01010101 {
		t.Errorf("MinRangingIntervalMs = %#x, want 0x01010101", p.MinRangingIntervalMs)
	}
	if p.MinSlotDurationRstu != 0x01010101 {
		t.Errorf("MinSlotDurationRstu = %#x, want 0x01010101", p.MinSlotDurationRstu)
	}
	if p.MaxRangingSessionNumber != 1 {
		t.Errorf("MaxRangingSessionNumber = %d, want 1", p.MaxRangingSessionNumber)
	}
	if want := fira.NtfCapEnable | fira.NtfCapDisable; p.NtfConfigCaps != want {
		t.Errorf("NtfConfigCaps = %#x, want %#x", p.NtfConfigCaps, want)
	}
}

func TestFiraDecoderSpecificationV1(t *testing.T) {
	p, err := NewFiraDecoder().Specification(parseTlvs(t, firaCapsV1Hex, 25))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	checkFiraCapsCommon(t, p)

	if want := fira.RoleFlags(0x03); p.DeviceRoles != want {
		t.Errorf("DeviceRoles = %#x, want %#x", p.DeviceRoles, want)
	}
	// The 1.x ranging method record only keeps the deferred TWR modes.
	if want := fira.MethodSsTwrDeferred | fira.MethodDsTwrDeferred; p.RangingMethods != want {
		t.Errorf("RangingMethods = %#x, want %#x", p.RangingMethods, want)
	}
	// The 1.x layout has no message size records; tags 0x12/0x13 belong
	// to other capabilities there.
	if p.MaxMessageSize != 0 || p.MaxDataPacketPayloadSize != 0 {
		t.Errorf("message sizes = %d/%d, want 0/0", p.MaxMessageSize, p.MaxDataPacketPayloadSize)
	}
}

func TestFiraDecoderSpecificationV2(t *testing.T) {
	p, err := NewFiraDecoder().Specification(parseTlvs(t, firaCapsV2Hex, 30))
	if err != nil {
		t.Fatalf("Specification() error: %v", err)
	}
	checkFiraCapsCommon(t, p)

	if p.DeviceType != fira.DeviceTypeController {
		t.Errorf("DeviceType = %d, want controller", p.DeviceType)
	}
	if want := fira.RoleFlags(0x0103); p.DeviceRoles != want {
		t.Errorf("DeviceRoles = %#x, want %#x", p.DeviceRoles, want)
	}
	if !p.DeviceRoles.Has(fira.RoleCapDtTag) {
		t.Error("DeviceRoles missing DT tag")
	}
	if want := fira.RangingMethodFlags(0x00FF); p.RangingMethods != want {
		t.Errorf("RangingMethods = %#x, want %#x", p.RangingMethods, want)
	}
	if p.HasSuspendRangingSupport {
		t.Error("HasSuspendRangingSupport = true")
	}
	if p.SessionKeyLength != fira.SessionKeyLength256 {
		t.Errorf("SessionKeyLength = %d, want 256-bit", p.SessionKeyLength)
	}
	// Undersized message size records are skipped, not fatal.
	if p.MaxMessageSize != 0 || p.MaxDataPacketPayloadSize != 0 {
		t.Errorf("message sizes = %d/%d, want 0/0", p.MaxMessageSize, p.MaxDataPacketPayloadSize)
	}
}

func TestFiraDecoderSpecificationMissingRecord(t *testing.T) {
	// Drop the required multi-node record from the v1 blob.
	data := "000401010102" + "010401050103" + "020103" + "03011F" + "040103"
	if _, err := NewFiraDecoder().Specification(parseTlvs(t, data, 5)); err == nil {
		t.Fatal("Specification() decoded a blob without multi-node modes")
	}
}
