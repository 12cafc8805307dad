package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/host"
)

// Test Plan for projection:
// - Default options compile into a schema in declaration order
// - NewSchema rejects mismatched column counts, unknown attributes, duplicates, empty names
// - Project with one single-column option yields one column and one row per record
// - Columns follow schema order regardless of selection order
// - Column count is the sum of the selected options' columns
// - Empty selection is rejected with ErrInvalidSelection before records are read
// - Unknown option is rejected with ErrInvalidSelection
// - Absent optional values project to the empty cell
// - Repeated projection is deterministic
// - Cell formatting: full precision, rounded, text, empty
// - FixedColumns covers every attribute

func sampleRecords() []assembly.Record {
	mass := 2.0
	center := host.Vec3{X: 12.5, Y: -3.25, Z: 0}
	return []assembly.Record{
		assembly.NewRecord("a.ipt", "A-1", "Part A", &mass, &center),
		assembly.NewRecord("b.ipt", "B-1", "Part B", nil, nil),
		assembly.NewRecord("c.ipt", "C-1", "Part C", &mass, nil),
	}
}

func TestDefaultOptions_Compile(t *testing.T) {
	t.Parallel()

	s, err := NewSchema(DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Part Number", "Description", "Mass", "Center of Mass", "Axis Mass", "Filename"}, s.Names())

	com, ok := s.Option("Center of Mass")
	require.True(t, ok)
	require.Len(t, com.Columns, 3)
	assert.Equal(t, XAxis, com.Columns[0].Attribute)
	assert.Equal(t, "Z", com.Columns[2].Name)
}

func TestNewSchema_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		defs []OptionDef
	}{
		{name: "no options", defs: nil},
		{name: "length mismatch", defs: []OptionDef{{Name: "A", DisplayNames: []string{"X", "Y"}, Attributes: []string{"x_axis"}}}},
		{name: "unknown attribute", defs: []OptionDef{{Name: "A", DisplayNames: []string{"X"}, Attributes: []string{"__class__"}}}},
		{name: "empty name", defs: []OptionDef{{Name: " ", DisplayNames: []string{"X"}, Attributes: []string{"x_axis"}}}},
		{name: "no columns", defs: []OptionDef{{Name: "A"}}},
		{name: "duplicate", defs: []OptionDef{
			{Name: "A", DisplayNames: []string{"X"}, Attributes: []string{"x_axis"}},
			{Name: "A", DisplayNames: []string{"Y"}, Attributes: []string{"y_axis"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.defs)
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestProject_SingleColumn(t *testing.T) {
	t.Parallel()

	schema := MustSchema(DefaultOptions())
	records := sampleRecords()

	table, err := Project(records, []string{"Part Number"}, schema)
	require.NoError(t, err)

	assert.Equal(t, []string{"Part Number"}, table.Columns)
	require.Len(t, table.Rows, len(records))
	for i, row := range table.Rows {
		require.Len(t, row, 1)
		assert.Equal(t, records[i].PartNumber(), row[0].String())
	}
}

func TestProject_SchemaOrder(t *testing.T) {
	t.Parallel()

	schema := MustSchema(DefaultOptions())

	table, err := Project(sampleRecords(), []string{"Center of Mass", "Mass", "Part Number", "Mass"}, schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"Part Number", "Mass", "X", "Y", "Z"}, table.Columns)
	assert.Len(t, table.Rows[0], 1+1+3)
}

func TestProject_EmptySelection(t *testing.T) {
	t.Parallel()

	schema := MustSchema(DefaultOptions())

	table, err := Project(sampleRecords(), nil, schema)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Nil(t, table)

	_, err = Project(nil, []string{}, schema)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestProject_UnknownOption(t *testing.T) {
	t.Parallel()

	_, err := Project(sampleRecords(), []string{"Volume"}, MustSchema(DefaultOptions()))
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Contains(t, err.Error(), "Volume")
}

func TestProject_AbsentValuesAreEmpty(t *testing.T) {
	t.Parallel()

	table, err := Project(sampleRecords(), []string{"Mass", "Center of Mass", "Axis Mass"}, MustSchema(DefaultOptions()))
	require.NoError(t, err)

	// Record A: everything present.
	for _, c := range table.Rows[0] {
		assert.False(t, c.IsEmpty())
	}
	xMass, ok := table.Rows[0][4].Number()
	require.True(t, ok)
	assert.Equal(t, 25.0, xMass)

	// Record B: nothing present.
	for _, c := range table.Rows[1] {
		assert.True(t, c.IsEmpty())
	}

	// Record C: mass only.
	assert.False(t, table.Rows[2][0].IsEmpty())
	for _, c := range table.Rows[2][1:] {
		assert.True(t, c.IsEmpty())
	}
}

func TestProject_Deterministic(t *testing.T) {
	t.Parallel()

	schema := MustSchema(DefaultOptions())
	records := sampleRecords()
	selected := []string{"Axis Mass", "Description", "Filename"}

	first, err := Project(records, selected, schema)
	require.NoError(t, err)
	second, err := Project(records, selected, schema)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCell_Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.1234567", Number(0.1234567).Format(-1))
	assert.Equal(t, "0.12", Number(0.1234567).Format(2))
	assert.Equal(t, "-3.25", Number(-3.25).Format(-1))
	assert.Equal(t, "2.50", Number(2.5).Format(2))
	assert.Equal(t, "0.13", Number(0.125).Format(2))
	assert.Equal(t, "text", Text("text").Format(2))
	assert.Equal(t, "", Empty.Format(2))
	assert.Equal(t, "", Empty.String())
}

func TestFixedColumns(t *testing.T) {
	t.Parallel()

	table := ProjectAll(sampleRecords(), FixedColumns())
	assert.Len(t, table.Columns, len(AttributeNames()))
	assert.Equal(t, "Filename", table.Columns[0])
	assert.Equal(t, "a.ipt", table.Rows[0][0].String())
}

func TestParseAttribute(t *testing.T) {
	t.Parallel()

	a, err := ParseAttribute("z_axis_mass")
	require.NoError(t, err)
	assert.Equal(t, ZAxisMass, a)
	assert.Equal(t, "z_axis_mass", a.String())

	_, err = ParseAttribute("self.x_axis")
	assert.Error(t, err)
}
