package projection

import (
	"errors"
	"fmt"

	"github.com/tbre-automation/partslist/internal/assembly"
)

// ErrInvalidSelection indicates the user selected no export options, or an
// option the schema does not define.
var ErrInvalidSelection = errors.New("invalid export selection")

// Table is a column-projected view of part records.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Validate checks a selection against the schema without touching any
// record. Callers use it to reject bad input before connecting to the host.
func Validate(selected []string, schema *Schema) error {
	if len(selected) == 0 {
		return fmt.Errorf("%w: select at least one of %v", ErrInvalidSelection, schema.Names())
	}
	for _, name := range selected {
		if _, ok := schema.Option(name); !ok {
			return fmt.Errorf("%w: unknown option %q (valid: %v)", ErrInvalidSelection, name, schema.Names())
		}
	}
	return nil
}

// Project projects records onto the selected options. Columns follow schema
// order regardless of selection order; duplicates in selected are ignored.
func Project(records []assembly.Record, selected []string, schema *Schema) (*Table, error) {
	if err := Validate(selected, schema); err != nil {
		return nil, err
	}

	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	var cols []Column
	for _, opt := range schema.options {
		if chosen[opt.Name] {
			cols = append(cols, opt.Columns...)
		}
	}
	return project(records, cols), nil
}

// ProjectAll projects records onto every option of the schema.
func ProjectAll(records []assembly.Record, schema *Schema) *Table {
	var cols []Column
	for _, opt := range schema.options {
		cols = append(cols, opt.Columns...)
	}
	return project(records, cols)
}

func project(records []assembly.Record, cols []Column) *Table {
	t := &Table{
		Columns: make([]string, len(cols)),
		Rows:    make([][]Cell, len(records)),
	}
	for i, c := range cols {
		t.Columns[i] = c.Name
	}
	for i, r := range records {
		row := make([]Cell, len(cols))
		for j, c := range cols {
			row[j] = c.value(r)
		}
		t.Rows[i] = row
	}
	return t
}
