// Package generic combines the per-protocol capability sets reported
// by a UWB device into one structure.
package generic

import (
	"github.com/openuwb/uwb/pkg/ccc"
	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/radar"
)

// SpecificationParams aggregates the capability sets of all supported
// protocols. A nil sub-struct means the device did not report that
// protocol (or its record failed to decode).
type SpecificationParams struct {
	Fira  *fira.SpecificationParams
	Ccc   *ccc.SpecificationParams
	Radar *radar.SpecificationParams

	HasPowerStatsSupport bool
}
