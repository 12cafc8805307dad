package assembly

import "github.com/tbre-automation/partslist/internal/host"

// CenterOfMassScale converts the host's native length unit (Inventor reports
// centimeters) into the report's display unit (millimeters).
const CenterOfMassScale = 10.0

// Record is an immutable snapshot of one leaf part's extracted attributes.
// Optional values are reported with an ok flag; the zero Record has none.
type Record struct {
	sourcePath  string
	partNumber  string
	description string

	mass         float64
	hasMass      bool
	centerOfMass host.Vec3
	hasCenter    bool
}

// NewRecord builds a record. mass and centerOfMass may be nil when their
// extraction failed; centerOfMass must already be in display units.
func NewRecord(sourcePath, partNumber, description string, mass *float64, centerOfMass *host.Vec3) Record {
	r := Record{
		sourcePath:  sourcePath,
		partNumber:  partNumber,
		description: description,
	}
	if mass != nil {
		r.mass, r.hasMass = *mass, true
	}
	if centerOfMass != nil {
		r.centerOfMass, r.hasCenter = *centerOfMass, true
	}
	return r
}

// SourcePath is the path of the document the record was extracted from.
func (r Record) SourcePath() string { return r.sourcePath }

// PartNumber is the "Part Number" design tracking property.
func (r Record) PartNumber() string { return r.partNumber }

// Description is the "Description" design tracking property.
func (r Record) Description() string { return r.description }

// Mass in kilograms.
func (r Record) Mass() (float64, bool) { return r.mass, r.hasMass }

// CenterOfMass in display units.
func (r Record) CenterOfMass() (host.Vec3, bool) { return r.centerOfMass, r.hasCenter }

// AxisMass is the center of mass scaled by mass, present only when both are.
func (r Record) AxisMass() (host.Vec3, bool) {
	if !r.hasMass || !r.hasCenter {
		return host.Vec3{}, false
	}
	return r.centerOfMass.Scale(r.mass), true
}
