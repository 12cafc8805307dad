package assembly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbre-automation/partslist/internal/host"
)

// nestedFixture is an assembly with two levels of sub-assemblies, an
// unresolvable reference and an occurrence of an unsupported document type.
//
//	ROOT.iam
//	  A:1            part A
//	  SUB:1          SUB.iam
//	    B:1          part B
//	    BROKEN:1     definition fails
//	    DEEP:1       DEEP.iam
//	      C:1        part C
//	      A:2        part A
//	  DRAWING:1      unsupported type
//	  D:1            part D
const nestedFixture = `
documents:
  - path: C:/work/ROOT.iam
    type: assembly
    occurrences:
      - {name: "A:1", document: C:/work/A.ipt}
      - {name: "SUB:1", document: C:/work/SUB.iam}
      - {name: "DRAWING:1", document: C:/work/D.ipt, type_code: 12292}
      - {name: "D:1", document: C:/work/D.ipt}
  - path: C:/work/SUB.iam
    type: assembly
    occurrences:
      - {name: "B:1", document: C:/work/B.ipt}
      - {name: "BROKEN:1", document: C:/work/MISSING.ipt, definition_error: "file not found"}
      - {name: "DEEP:1", document: C:/work/DEEP.iam}
  - path: C:/work/DEEP.iam
    type: assembly
    occurrences:
      - {name: "C:1", document: C:/work/C.ipt}
      - {name: "A:2", document: C:/work/A.ipt}
  - path: C:/work/A.ipt
    type: part
    properties: {Design Tracking Properties: {Part Number: A-1, Description: Part A}}
    mass: 2.0
    center_of_mass: [1.0, 2.0, 3.0]
  - path: C:/work/B.ipt
    type: part
    properties: {Design Tracking Properties: {Part Number: B-1, Description: Part B}}
    mass: 0.5
    center_of_mass: [0.0, 0.0, 1.0]
  - path: C:/work/C.ipt
    type: part
    properties: {Design Tracking Properties: {Part Number: C-1, Description: Part C}}
    mass_properties_error: not computed
  - path: C:/work/D.ipt
    type: part
    properties: {Design Tracking Properties: {Part Number: D-1, Description: Part D}}
    mass: 1.25
    center_of_mass: [4.0, 0.0, 0.0]
`

func newFixture(t *testing.T, yaml string) *host.Fixture {
	t.Helper()
	f, err := host.NewFixture([]byte(yaml))
	require.NoError(t, err)
	return f
}

func openDocument(t *testing.T, f *host.Fixture, path string) host.Document {
	t.Helper()
	doc, err := f.OpenDocument(context.Background(), path)
	require.NoError(t, err)
	return doc
}

func partNumbers(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.PartNumber())
	}
	return out
}

// recordingObserver captures observer calls.
type recordingObserver struct {
	started   bool
	root      string
	rootCount int
	labels    []string
	completed *Stats
}

func (o *recordingObserver) OnTraversalStart(root string, rootOccurrences int) {
	o.started = true
	o.root = root
	o.rootCount = rootOccurrences
}

func (o *recordingObserver) OnNodeVisited(visited int, label string) {
	o.labels = append(o.labels, label)
}

func (o *recordingObserver) OnTraversalComplete(stats Stats) {
	o.completed = &stats
}
