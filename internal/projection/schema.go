// Package projection maps part records onto user-selected report columns.
//
// A Schema is an ordered list of export options, each contributing one or
// more columns. Schemas are built once from configuration: attribute names
// are resolved to typed accessors at that point, so projecting never looks
// fields up by name.
package projection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbre-automation/partslist/internal/assembly"
)

// ErrInvalidSchema indicates a malformed export option definition.
var ErrInvalidSchema = errors.New("invalid export options")

// OptionDef is the configuration form of one export option. DisplayNames and
// Attributes pair up one-to-one, one column each.
type OptionDef struct {
	Name         string   `yaml:"option_name" mapstructure:"option_name"`
	DisplayNames []string `yaml:"display_name" mapstructure:"display_name"`
	Attributes   []string `yaml:"attribute_name" mapstructure:"attribute_name"`
}

// Column is one output column.
type Column struct {
	Name      string
	Attribute Attribute
	value     func(assembly.Record) Cell
}

// Option is a compiled export option.
type Option struct {
	Name    string
	Columns []Column
}

// Schema is an ordered, read-only set of export options.
type Schema struct {
	options []Option
	index   map[string]int
}

// NewSchema validates and compiles option definitions.
func NewSchema(defs []OptionDef) (*Schema, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no options defined", ErrInvalidSchema)
	}

	s := &Schema{index: make(map[string]int, len(defs))}
	var errs []error
	for i, def := range defs {
		opt, err := compileOption(def)
		if err != nil {
			errs = append(errs, fmt.Errorf("option %d: %w", i+1, err))
			continue
		}
		if _, dup := s.index[opt.Name]; dup {
			errs = append(errs, fmt.Errorf("option %d: duplicate option name %q", i+1, opt.Name))
			continue
		}
		s.index[opt.Name] = len(s.options)
		s.options = append(s.options, opt)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, errors.Join(errs...))
	}
	return s, nil
}

// MustSchema is NewSchema for definitions known to be valid.
func MustSchema(defs []OptionDef) *Schema {
	s, err := NewSchema(defs)
	if err != nil {
		panic(err)
	}
	return s
}

func compileOption(def OptionDef) (Option, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return Option{}, fmt.Errorf("option_name is required")
	}
	if len(def.DisplayNames) == 0 {
		return Option{}, fmt.Errorf("%q: at least one column required", name)
	}
	if len(def.DisplayNames) != len(def.Attributes) {
		return Option{}, fmt.Errorf("%q: %d display names but %d attribute names", name, len(def.DisplayNames), len(def.Attributes))
	}

	opt := Option{Name: name, Columns: make([]Column, 0, len(def.Attributes))}
	for i, attrName := range def.Attributes {
		attr, err := ParseAttribute(strings.TrimSpace(attrName))
		if err != nil {
			return Option{}, fmt.Errorf("%q: %w", name, err)
		}
		opt.Columns = append(opt.Columns, Column{
			Name:      def.DisplayNames[i],
			Attribute: attr,
			value:     attr.accessor(),
		})
	}
	return opt, nil
}

// Options returns the options in schema order.
func (s *Schema) Options() []Option {
	return append([]Option(nil), s.options...)
}

// Names returns the option names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.options))
	for i, opt := range s.options {
		names[i] = opt.Name
	}
	return names
}

// Option looks up an option by name.
func (s *Schema) Option(name string) (Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// DefaultOptions is the export option set offered when configuration does
// not override it.
func DefaultOptions() []OptionDef {
	return []OptionDef{
		{Name: "Part Number", DisplayNames: []string{"Part Number"}, Attributes: []string{"part_number"}},
		{Name: "Description", DisplayNames: []string{"Description"}, Attributes: []string{"part_name"}},
		{Name: "Mass", DisplayNames: []string{"Mass"}, Attributes: []string{"mass"}},
		{Name: "Center of Mass", DisplayNames: []string{"X", "Y", "Z"}, Attributes: []string{"x_axis", "y_axis", "z_axis"}},
		{Name: "Axis Mass", DisplayNames: []string{"X Mass", "Y Mass", "Z Mass"}, Attributes: []string{"x_axis_mass", "y_axis_mass", "z_axis_mass"}},
		{Name: "Filename", DisplayNames: []string{"Filename"}, Attributes: []string{"filename"}},
	}
}

// FixedColumns is the schema of the batch export: every record attribute,
// one option per column.
func FixedColumns() *Schema {
	return MustSchema([]OptionDef{
		{Name: "Filename", DisplayNames: []string{"Filename"}, Attributes: []string{"filename"}},
		{Name: "Part Number", DisplayNames: []string{"Part Number"}, Attributes: []string{"part_number"}},
		{Name: "Part Name", DisplayNames: []string{"Part Name"}, Attributes: []string{"part_name"}},
		{Name: "Mass", DisplayNames: []string{"Mass"}, Attributes: []string{"mass"}},
		{Name: "X Axis", DisplayNames: []string{"X Axis"}, Attributes: []string{"x_axis"}},
		{Name: "Y Axis", DisplayNames: []string{"Y Axis"}, Attributes: []string{"y_axis"}},
		{Name: "Z Axis", DisplayNames: []string{"Z Axis"}, Attributes: []string{"z_axis"}},
		{Name: "X Axis Mass", DisplayNames: []string{"X Axis Mass"}, Attributes: []string{"x_axis_mass"}},
		{Name: "Y Axis Mass", DisplayNames: []string{"Y Axis Mass"}, Attributes: []string{"y_axis_mass"}},
		{Name: "Z Axis Mass", DisplayNames: []string{"Z Axis Mass"}, Attributes: []string{"z_axis_mass"}},
	})
}
