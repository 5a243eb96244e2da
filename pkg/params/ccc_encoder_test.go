package params

import (
	"bytes"
	"testing"

	"github.com/openuwb/uwb/pkg/ccc"
	"github.com/openuwb/uwb/pkg/fira"
)

// cccFixedHex is the head every open ranging encode shares: the CCC
// profile pins device type, STS config, role and topology.
const cccFixedHex = "000101" + "020101" + "040109" + "050101" + "090480010000" +
	"110101" + "030101" + "1B0106" + "2C0100" + "A3020001" + "A4020000" +
	"A50100" + "A602D002" + "0802B004" + "140101"

func baseCccRanging() *ccc.OpenRangingBuilder {
	return ccc.NewOpenRangingBuilder().
		ProtocolVersion(ccc.Version10).
		SessionID(1).
		UwbConfig(ccc.UwbConfig0).
		PulseShapeCombo(ccc.PulseShapeCombo{
			Initiator: ccc.PulseShapeSymmetricalRootRaisedCosine,
			Responder: ccc.PulseShapeSymmetricalRootRaisedCosine,
		}).
		RanMultiplier(4).
		Channel(9).
		NumChapsPerSlot(3).
		NumResponderNodes(1).
		NumSlotsPerRound(6).
		SyncCodeIndex(1).
		Hopping(ccc.HoppingConfigModeNone, ccc.HoppingSequenceDefault).
		InitiationTimeMs(1)
}

func checkCccEncode(t *testing.T, cfg DeviceConfig, b *ccc.OpenRangingBuilder, wantHex string, wantParams int) {
	t.Helper()
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	buf, err := NewCccEncoder(cfg).Encode(p, fira.ProtocolVersion{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if buf.NumParams() != wantParams {
		t.Errorf("NumParams() = %d, want %d", buf.NumParams(), wantParams)
	}
	want := mustHex(t, wantHex)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Encode() =\n%x\nwant\n%x", buf.Bytes(), want)
	}
}

func TestCccEncoderOpenRanging(t *testing.T) {
	checkCccEncode(t, DeviceConfig{}, baseCccRanging(),
		cccFixedHex+"2B080100000000000000"+"0E0100", 17)
}

func TestCccEncoderOpenRangingStsIndex(t *testing.T) {
	checkCccEncode(t, DeviceConfig{}, baseCccRanging().StsIndex(3),
		cccFixedHex+"0A0403000000"+"2B080100000000000000"+"0E0100", 18)
}

func TestCccEncoderOpenRangingAbsoluteInitiationTime(t *testing.T) {
	// An absolute initiation time wins over the relative one.
	checkCccEncode(t, DeviceConfig{}, baseCccRanging().AbsoluteInitiationTimeUs(10000),
		cccFixedHex+"2B081027000000000000"+"0E0100", 17)
}

func TestCccEncoderOpenRangingRangeDataNtf(t *testing.T) {
	cfg := DeviceConfig{CccRangeDataNtfConfig: true}

	t.Run("default disabled", func(t *testing.T) {
		checkCccEncode(t, cfg, baseCccRanging(),
			cccFixedHex+"2B080100000000000000"+"0E0100"+"0F020000"+"1002204E", 19)
	})
	t.Run("enabled", func(t *testing.T) {
		checkCccEncode(t, cfg, baseCccRanging().RangeDataNtf(fira.NtfConfigEnable, 0, 20000),
			cccFixedHex+"2B080100000000000000"+"0E0101"+"0F020000"+"1002204E", 19)
	})
	t.Run("proximity trigger", func(t *testing.T) {
		checkCccEncode(t, cfg, baseCccRanging().RangeDataNtf(fira.NtfConfigProximityLevelTrig, 100, 200),
			cccFixedHex+"2B080100000000000000"+"0E0102"+"0F026400"+"1002C800", 19)
	})
}

func TestCccEncoderRejectsForeignParams(t *testing.T) {
	if _, err := NewCccEncoder(DeviceConfig{}).Encode(struct{}{}, fira.ProtocolVersion{}); err == nil {
		t.Fatal("Encode() accepted foreign params")
	}
}
