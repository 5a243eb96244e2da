// uwbtool inspects and produces UWB session parameter TLV blobs.
//
// Usage:
//
//	uwbtool [options] <mode> [hex]
//
// Modes:
//
//	decode <hex>  list the raw TLV records of a parameter blob
//	caps <hex>    decode a capability blob for the selected protocol
//	encode        emit a default open-session blob for the selected protocol
//
// Options:
//
//	--protocol    fira, ccc, radar or generic (default: fira)
//	--config      uwbd YAML config supplying the device feature flags
//	--session-id  session ID for encode mode (default: 1)
//	--channel     UWB channel for encode mode (default: 9)
//
// Example:
//
//	uwbtool --protocol ccc caps 030101a0041e000000
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pion/logging"
	"github.com/spf13/pflag"

	"github.com/openuwb/uwb/pkg/ccc"
	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/params"
	"github.com/openuwb/uwb/pkg/radar"
	"github.com/openuwb/uwb/pkg/tlv"
	"github.com/openuwb/uwb/pkg/uwbd"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "uwbtool: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		protocolName string
		configPath   string
		sessionID    uint32
		channel      uint8
	)

	flags := pflag.NewFlagSet("uwbtool", pflag.ContinueOnError)
	flags.StringVar(&protocolName, "protocol", "fira", "protocol: fira, ccc, radar or generic")
	flags.StringVar(&configPath, "config", "", "uwbd YAML config for device feature flags")
	flags.Uint32Var(&sessionID, "session-id", 1, "session ID for encode mode")
	flags.Uint8Var(&channel, "channel", 9, "UWB channel for encode mode")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	protocol, err := parseProtocol(protocolName)
	if err != nil {
		return err
	}

	cfg := uwbd.DefaultConfig()
	if configPath != "" {
		cfg, err = uwbd.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}

	args := flags.Args()
	if len(args) == 0 {
		return fmt.Errorf("missing mode, want decode, caps or encode")
	}

	switch mode := args[0]; mode {
	case "decode":
		blob, err := blobArg(args)
		if err != nil {
			return err
		}
		return decode(blob)
	case "caps":
		blob, err := blobArg(args)
		if err != nil {
			return err
		}
		return capabilities(protocol, cfg.Device, blob)
	case "encode":
		return encode(protocol, cfg, sessionID, channel)
	default:
		return fmt.Errorf("unknown mode %q, want decode, caps or encode", mode)
	}
}

func parseProtocol(name string) (params.Protocol, error) {
	switch name {
	case "fira":
		return params.ProtocolFira, nil
	case "ccc":
		return params.ProtocolCcc, nil
	case "radar":
		return params.ProtocolRadar, nil
	case "generic":
		return params.ProtocolGeneric, nil
	default:
		return 0, fmt.Errorf("unknown protocol %q", name)
	}
}

func blobArg(args []string) ([]byte, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%s mode needs a hex TLV blob argument", args[0])
	}
	blob, err := hex.DecodeString(args[1])
	if err != nil {
		return nil, fmt.Errorf("bad hex blob: %w", err)
	}
	return blob, nil
}

// walkRecords splits a blob into raw TLV records in wire order.
func walkRecords(blob []byte) ([]record, error) {
	var records []record
	for off := 0; off < len(blob); {
		if len(blob)-off < 2 {
			return nil, fmt.Errorf("truncated record header at offset %d", off)
		}
		tag := blob[off]
		length := int(blob[off+1])
		off += 2
		if len(blob)-off < length {
			return nil, fmt.Errorf("tag 0x%02X wants %d bytes, %d left", tag, length, len(blob)-off)
		}
		records = append(records, record{tag: tag, value: blob[off : off+length]})
		off += length
	}
	return records, nil
}

type record struct {
	tag   uint8
	value []byte
}

func decode(blob []byte) error {
	records, err := walkRecords(blob)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("tag 0x%02X  len %3d  %x\n", r.tag, len(r.value), r.value)
	}
	fmt.Printf("%d records, %d bytes\n", len(records), len(blob))
	return nil
}

func capabilities(p params.Protocol, device params.DeviceConfig, blob []byte) error {
	records, err := walkRecords(blob)
	if err != nil {
		return err
	}
	tlvs := tlv.NewDecoderBuffer(blob, len(records))
	if err := tlvs.Parse(); err != nil {
		return err
	}

	switch p {
	case params.ProtocolFira:
		spec, err := params.NewFiraDecoder().Specification(tlvs)
		if err != nil {
			return err
		}
		printFiraSpec(spec)
	case params.ProtocolCcc:
		spec, err := params.NewCccDecoder(device).Specification(tlvs)
		if err != nil {
			return err
		}
		printCccSpec(spec)
	case params.ProtocolRadar:
		spec, err := params.NewRadarDecoder().Specification(tlvs)
		if err != nil {
			return err
		}
		fmt.Printf("radar capabilities: %v\n", spec.Capabilities)
	case params.ProtocolGeneric:
		spec, err := params.NewGenericDecoder(device, logging.NewDefaultLoggerFactory()).Specification(tlvs)
		if err != nil {
			return err
		}
		if spec.Fira != nil {
			printFiraSpec(spec.Fira)
		}
		if spec.Ccc != nil {
			printCccSpec(spec.Ccc)
		}
		if spec.Radar != nil {
			fmt.Printf("radar capabilities: %v\n", spec.Radar.Capabilities)
		}
		fmt.Printf("power stats:  %v\n", spec.HasPowerStatsSupport)
	}
	return nil
}

func printFiraSpec(spec *fira.SpecificationParams) {
	fmt.Printf("fira phy:     %s .. %s\n", spec.MinPhyVersion, spec.MaxPhyVersion)
	fmt.Printf("fira mac:     %s .. %s\n", spec.MinMacVersion, spec.MaxMacVersion)
	fmt.Printf("device type:  %v\n", spec.DeviceType)
	fmt.Printf("roles:        %v\n", spec.DeviceRoles)
	fmt.Printf("methods:      %v\n", spec.RangingMethods)
	fmt.Printf("sts:          %v\n", spec.StsCaps)
	fmt.Printf("multi-node:   %v\n", spec.MultiNodeCaps)
	fmt.Printf("channels:     %v\n", spec.Channels)
}

func printCccSpec(spec *ccc.SpecificationParams) {
	fmt.Printf("ccc versions: %v\n", spec.ProtocolVersions)
	fmt.Printf("uwb configs:  %v\n", spec.UwbConfigs)
	fmt.Printf("channels:     %v (prioritized %v)\n", spec.Channels, spec.PrioritizedChannels)
	fmt.Printf("chaps/slot:   %v\n", spec.ChapsPerSlot)
	fmt.Printf("sync codes:   %v\n", spec.SyncCodes)
	fmt.Printf("hopping:      modes %v sequences %v\n", spec.HoppingConfigModes, spec.HoppingSequences)
	fmt.Printf("max sessions: %d\n", spec.MaxRangingSessionNumber)
}

func encode(p params.Protocol, cfg uwbd.Config, sessionID uint32, channel uint8) error {
	open, err := defaultOpenParams(p, sessionID, channel)
	if err != nil {
		return err
	}

	encoder, err := params.NewEncoder(p, cfg.Device)
	if err != nil {
		return err
	}
	var version fira.ProtocolVersion
	if _, err := fmt.Sscanf(cfg.UwbsVersion, "%d.%d", &version.Major, &version.Minor); err != nil {
		return fmt.Errorf("bad uwbs_version %q: %w", cfg.UwbsVersion, err)
	}

	buf, err := encoder.Encode(open, version)
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", buf.Bytes())
	fmt.Printf("%d records, %d bytes\n", buf.NumParams(), len(buf.Bytes()))
	return nil
}

// defaultOpenParams builds a representative open-session parameter set
// for the protocol, suitable as a starting point for hand editing.
func defaultOpenParams(p params.Protocol, sessionID uint32, channel uint8) (any, error) {
	switch p {
	case params.ProtocolFira:
		return fira.NewOpenSessionBuilder().
			ProtocolVersion(fira.Version11).
			SessionID(sessionID).
			DeviceType(fira.DeviceTypeController).
			DeviceRole(fira.RoleInitiator).
			RangingRoundUsage(fira.UsageSsTwrDeferred).
			MultiNodeMode(fira.MultiNodeUnicast).
			DeviceAddress([]byte{0x00, 0x01}).
			DestAddressList([]byte{0x00, 0x02}).
			VendorID([]byte{0x00, 0x01}).
			StaticStsIV([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}).
			Set(func(o *fira.OpenSessionParams) { o.ChannelNumber = channel }).
			Build()
	case params.ProtocolCcc:
		return ccc.NewOpenRangingBuilder().
			ProtocolVersion(ccc.Version10).
			SessionID(sessionID).
			UwbConfig(ccc.UwbConfig0).
			PulseShapeCombo(ccc.PulseShapeCombo{
				Initiator: ccc.PulseShapePrecursorFree,
				Responder: ccc.PulseShapePrecursorFree,
			}).
			RanMultiplier(96).
			Channel(channel).
			NumChapsPerSlot(3).
			NumResponderNodes(1).
			NumSlotsPerRound(12).
			SyncCodeIndex(1).
			Build()
	case params.ProtocolRadar:
		return radar.NewOpenSessionBuilder().
			SessionID(sessionID).
			Timing(100, 40, 16).
			Channel(channel).
			Build()
	default:
		return nil, fmt.Errorf("no session encoder for protocol %s", p)
	}
}
