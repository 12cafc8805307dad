// Package report renders projected part tables.
//
// The export path writes numbers at full precision. The preview path rounds
// them for display and never feeds back into an export.
package report

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/google/uuid"

	"github.com/tbre-automation/partslist/internal/projection"
)

// FullPrecision formats numbers with the shortest exact representation.
const FullPrecision = -1

// DefaultPreviewPrecision is the number of decimals shown in previews.
const DefaultPreviewPrecision = 2

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown report format")

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Format selects a renderer.
type Format string

const (
	FormatHTML     Format = "html"
	FormatPreview  Format = "preview"
	FormatTSV      Format = "tsv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatHTML, FormatPreview, FormatTSV, FormatMarkdown}
}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %v)", ErrUnknownFormat, s, Formats())
}

// Extension is the file extension conventionally used for f.
func (f Format) Extension() string {
	switch f {
	case FormatTSV:
		return ".tsv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".html"
	}
}

// Meta describes one report run.
type Meta struct {
	Title string
	RunID string
}

// NewMeta returns metadata with a fresh run ID.
func NewMeta(title string) Meta {
	return Meta{Title: title, RunID: uuid.NewString()}
}

// Options controls Render.
type Options struct {
	Meta Meta
	// PreviewPrecision is the number of decimals FormatPreview rounds to.
	// Zero rounds to whole numbers.
	PreviewPrecision int
}

// NewOptions returns options for meta with DefaultPreviewPrecision.
func NewOptions(meta Meta) Options {
	return Options{Meta: meta, PreviewPrecision: DefaultPreviewPrecision}
}

// Render writes t in format f.
func Render(w io.Writer, f Format, t *projection.Table, opts Options) error {
	switch f {
	case FormatHTML:
		return RenderHTML(w, t, opts.Meta)
	case FormatPreview:
		return RenderPreview(w, t, opts.Meta, opts.PreviewPrecision)
	case FormatTSV:
		return RenderTSV(w, t)
	case FormatMarkdown:
		return RenderMarkdown(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

type page struct {
	Meta   Meta
	Header []string
	Rows   [][]string
}

func newPage(t *projection.Table, meta Meta, precision int) page {
	p := page{
		Meta:   meta,
		Header: t.Columns,
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.Format(precision)
		}
		p.Rows[i] = cells
	}
	return p
}

// RenderHTML writes t as an HTML document holding a single table. Numbers are
// written at full precision; absent values are empty cells.
func RenderHTML(w io.Writer, t *projection.Table, meta Meta) error {
	return templates.ExecuteTemplate(w, "document.html", newPage(t, meta, FullPrecision))
}

// RenderPreview writes t like RenderHTML with numbers rounded to precision
// decimals.
func RenderPreview(w io.Writer, t *projection.Table, meta Meta, precision int) error {
	if precision < 0 {
		return fmt.Errorf("preview precision must be >= 0, got %d", precision)
	}
	return templates.ExecuteTemplate(w, "document.html", newPage(t, meta, precision))
}

// RenderTSV writes t as tab-separated clipboard text with a header row.
func RenderTSV(w io.Writer, t *projection.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.String()
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderMarkdown writes t as a Markdown table.
func RenderMarkdown(w io.Writer, t *projection.Table) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "table.html", newPage(t, Meta{}, FullPrecision)); err != nil {
		return err
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(buf.String())
	if err != nil {
		return fmt.Errorf("failed to convert report to markdown: %w", err)
	}
	_, err = io.WriteString(w, md+"\n")
	return err
}
