package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/host"
	"github.com/tbre-automation/partslist/internal/projection"
)

// Test Plan for report:
// - HTML export holds exactly one table with full-precision numbers
// - Absent values render as empty cells
// - Markup in part metadata is escaped
// - Preview rounds numbers to the requested precision and leaves text alone
// - TSV has a header row and tab-separated full-precision cells
// - Markdown renders a pipe table
// - WriteExport names the file PARTS_LIST_<timestamp>.html and creates the directory
// - WriteExport never overwrites: exports within the same second get numbered names
// - PreviewFile strips scripts and rounds numeric cells only
// - Render previews at the precision given, zero decimals included
// - ParseFormat accepts known formats case-insensitively and rejects others

func sampleTable(t *testing.T) *projection.Table {
	t.Helper()

	mass := 0.1234567
	center := host.Vec3{X: 1.5, Y: -2.25, Z: 10}
	records := []assembly.Record{
		assembly.NewRecord("C:/parts/shaft.ipt", "GB-001", "Input <Shaft>", &mass, &center),
		assembly.NewRecord("C:/parts/ring.ipt", "GB-004", "Dog Ring", nil, nil),
	}
	table, err := projection.Project(records, []string{"Part Number", "Description", "Mass", "Center of Mass"},
		projection.MustSchema(projection.DefaultOptions()))
	require.NoError(t, err)
	return table
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleTable(t), Meta{Title: "Gearbox", RunID: "run-1"}))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "<table"))
	assert.Contains(t, out, "<th>Part Number</th>")
	assert.Contains(t, out, "<td>0.1234567</td>")
	assert.Contains(t, out, "<td>-2.25</td>")
	assert.Contains(t, out, `<meta name="run-id" content="run-1">`)
	assert.Contains(t, out, "<title>Gearbox</title>")
	assert.Contains(t, out, "Input &lt;Shaft&gt;")
	assert.Contains(t, out, "<tr><td>GB-004</td><td>Dog Ring</td><td></td><td></td><td></td><td></td></tr>")
}

func TestRenderPreview(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderPreview(&buf, sampleTable(t), Meta{}, 2))
	out := buf.String()

	assert.Contains(t, out, "<td>0.12</td>")
	assert.Contains(t, out, "<td>10.00</td>")
	assert.Contains(t, out, "<td>GB-001</td>")
	assert.NotContains(t, out, "0.1234567")

	assert.Error(t, RenderPreview(&buf, sampleTable(t), Meta{}, -1))
}

func TestRenderTSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderTSV(&buf, sampleTable(t)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Part Number\tDescription\tMass\tX\tY\tZ", lines[0])
	assert.Equal(t, "GB-001\tInput <Shaft>\t0.1234567\t1.5\t-2.25\t10", lines[1])
	assert.Equal(t, "GB-004\tDog Ring\t\t\t\t", lines[2])
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, sampleTable(t)))
	out := buf.String()

	assert.Contains(t, out, "| Part Number |")
	assert.Contains(t, out, "GB-001")
	assert.Contains(t, out, "0.1234567")
	assert.Contains(t, out, "---")
}

func TestRender_Dispatch(t *testing.T) {
	t.Parallel()

	table := sampleTable(t)
	for _, f := range Formats() {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, f, table, Options{}), f)
		assert.Contains(t, buf.String(), "GB-001", f)
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatPreview, table, NewOptions(NewMeta("Gearbox"))))
	assert.Contains(t, buf.String(), "<td>0.12</td>")

	assert.ErrorIs(t, Render(&buf, Format("pdf"), table, Options{}), ErrUnknownFormat)
	assert.Error(t, Render(&buf, FormatPreview, table, Options{PreviewPrecision: -1}))
}

func TestRender_PreviewWholeNumbers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatPreview, sampleTable(t), Options{PreviewPrecision: 0}))

	out := buf.String()
	assert.Contains(t, out, "<td>0</td>")
	assert.Contains(t, out, "<td>2</td>")
	assert.Contains(t, out, "<td>-2</td>")
	assert.NotContains(t, out, "0.12")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" Markdown ")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	assert.Equal(t, ".md", f.Extension())

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteExport(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "results")
	now := time.Date(2025, 6, 8, 12, 51, 54, 0, time.Local)

	path, err := WriteExport(dir, "", now, sampleTable(t), NewMeta("Gearbox"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "PARTS_LIST_2025-06-08_12-51-54.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<td>0.1234567</td>")
	assert.Contains(t, string(data), `name="run-id"`)

	assert.Equal(t, "BOM_2025-06-08_12-51-54.html", ExportFileName("BOM", now))
}

func TestWriteExport_SameSecond(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2025, 6, 8, 12, 51, 54, 0, time.Local)
	first := NewMeta("Gearbox")

	var paths []string
	for _, meta := range []Meta{first, NewMeta("Gearbox"), NewMeta("Gearbox")} {
		path, err := WriteExport(dir, "", now, sampleTable(t), meta)
		require.NoError(t, err)
		paths = append(paths, filepath.Base(path))
	}
	assert.Equal(t, []string{
		"PARTS_LIST_2025-06-08_12-51-54.html",
		"PARTS_LIST_2025-06-08_12-51-54_2.html",
		"PARTS_LIST_2025-06-08_12-51-54_3.html",
	}, paths)

	data, err := os.ReadFile(filepath.Join(dir, paths[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), first.RunID)
}

func TestPreviewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "saved.html")
	saved := `<html><body><script>alert(1)</script>` +
		`<table border="1"><tr><th>Part Number</th><th>Mass</th></tr>` +
		`<tr><td>GB-001</td><td>0.1234567</td></tr>` +
		`<tr><td>1234</td><td> -3.14159 </td></tr></table></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(saved), 0644))

	out, err := PreviewFile(path, 2)
	require.NoError(t, err)

	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "<td>GB-001</td>")
	assert.Contains(t, out, "<td>0.12</td>")
	assert.Contains(t, out, "<td>1234.00</td>")
	assert.Contains(t, out, "<td> -3.14 </td>")

	_, err = PreviewFile(filepath.Join(t.TempDir(), "missing.html"), 2)
	assert.Error(t, err)
}

func TestRoundNumbers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<td>1.235</td><td>A-1.5</td>", RoundNumbers("<td>1.23456</td><td>A-1.5</td>", 3))
	assert.Equal(t, "<td>0.00</td>", RoundNumbers("<td>1e-3</td>", 2))
	assert.Equal(t, "<td>0</td>", RoundNumbers("<td>0.4</td>", 0))
}
