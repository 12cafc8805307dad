package projection

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/host"
)

// Attribute names one field of a part record. The set is closed: schema
// entries are resolved against it when the schema is built.
type Attribute int

const (
	Filename Attribute = iota + 1
	PartNumber
	PartName
	Mass
	XAxis
	YAxis
	ZAxis
	XAxisMass
	YAxisMass
	ZAxisMass
)

var attributeNames = map[Attribute]string{
	Filename:   "filename",
	PartNumber: "part_number",
	PartName:   "part_name",
	Mass:       "mass",
	XAxis:      "x_axis",
	YAxis:      "y_axis",
	ZAxis:      "z_axis",
	XAxisMass:  "x_axis_mass",
	YAxisMass:  "y_axis_mass",
	ZAxisMass:  "z_axis_mass",
}

var attributesByName = func() map[string]Attribute {
	m := make(map[string]Attribute, len(attributeNames))
	for a, name := range attributeNames {
		m[name] = a
	}
	return m
}()

// ParseAttribute resolves an attribute name such as "x_axis_mass".
func ParseAttribute(name string) (Attribute, error) {
	a, ok := attributesByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown attribute %q (valid: %v)", name, AttributeNames())
	}
	return a, nil
}

// AttributeNames lists every attribute name, sorted.
func AttributeNames() []string {
	names := make([]string, 0, len(attributesByName))
	for name := range attributesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a Attribute) String() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return "attribute(" + strconv.Itoa(int(a)) + ")"
}

// accessor returns the typed lookup for a. Unknown attributes never reach
// here because schemas only hold parsed attributes.
func (a Attribute) accessor() func(assembly.Record) Cell {
	switch a {
	case Filename:
		return func(r assembly.Record) Cell { return Text(r.SourcePath()) }
	case PartNumber:
		return func(r assembly.Record) Cell { return Text(r.PartNumber()) }
	case PartName:
		return func(r assembly.Record) Cell { return Text(r.Description()) }
	case Mass:
		return func(r assembly.Record) Cell { return optional(r.Mass()) }
	case XAxis:
		return vecComponent(assembly.Record.CenterOfMass, func(v host.Vec3) float64 { return v.X })
	case YAxis:
		return vecComponent(assembly.Record.CenterOfMass, func(v host.Vec3) float64 { return v.Y })
	case ZAxis:
		return vecComponent(assembly.Record.CenterOfMass, func(v host.Vec3) float64 { return v.Z })
	case XAxisMass:
		return vecComponent(assembly.Record.AxisMass, func(v host.Vec3) float64 { return v.X })
	case YAxisMass:
		return vecComponent(assembly.Record.AxisMass, func(v host.Vec3) float64 { return v.Y })
	case ZAxisMass:
		return vecComponent(assembly.Record.AxisMass, func(v host.Vec3) float64 { return v.Z })
	default:
		return func(assembly.Record) Cell { return Empty }
	}
}

func optional(v float64, ok bool) Cell {
	if !ok {
		return Empty
	}
	return Number(v)
}

func vecComponent(get func(assembly.Record) (host.Vec3, bool), pick func(host.Vec3) float64) func(assembly.Record) Cell {
	return func(r assembly.Record) Cell {
		v, ok := get(r)
		if !ok {
			return Empty
		}
		return Number(pick(v))
	}
}
