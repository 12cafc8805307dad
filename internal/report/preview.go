package report

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tbre-automation/partslist/internal/projection"
)

// cellText matches the text between two tags when it is a single number.
var cellText = regexp.MustCompile(`>(\s*)([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)(\s*)<`)

// previewPolicy keeps tables and basic formatting and drops scripts, styles
// and event handlers from saved reports.
func previewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("border").OnElements("table")
	return p
}

// PreviewFile loads a saved report and returns it sanitized, with numeric
// cells rounded to precision decimals.
func PreviewFile(path string, precision int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return Preview(string(data), precision)
}

// Preview sanitizes html and rounds its numeric cells.
func Preview(html string, precision int) (string, error) {
	if precision < 0 {
		return "", fmt.Errorf("preview precision must be >= 0, got %d", precision)
	}
	return RoundNumbers(previewPolicy().Sanitize(html), precision), nil
}

// RoundNumbers rounds every element text that is exactly one number. Text
// mixing digits with other characters, such as part numbers, is untouched.
func RoundNumbers(html string, precision int) string {
	return cellText.ReplaceAllStringFunc(html, func(m string) string {
		sub := cellText.FindStringSubmatch(m)
		v, err := strconv.ParseFloat(sub[2], 64)
		if err != nil {
			return m
		}
		var b strings.Builder
		b.WriteString(">")
		b.WriteString(sub[1])
		b.WriteString(projection.Number(v).Format(precision))
		b.WriteString(sub[3])
		b.WriteString("<")
		return b.String()
	})
}
