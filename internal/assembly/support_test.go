package assembly

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Test Plan for cache, filter and structure:
// - CachingExtractor returns the same record and counts hits for repeated documents
// - CachingExtractor does not cache failures
// - Invalidate forces re-extraction
// - Filter matches case-insensitively with either path separator
// - Filter rejects malformed patterns
// - Nil filter excludes nothing
// - Structure tree lists documents with occurrence multipliers
// - Structure DOT output names every document

func TestCachingExtractor_Hits(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nestedFixture)
	cache, err := NewCachingExtractor(NewExtractor(nil), 100)
	require.NoError(t, err)
	defer cache.Close()

	tr := NewTraverser(cache, zaptest.NewLogger(t), Options{})
	res, err := tr.TraverseDocument(context.Background(), openDocument(t, f, "C:/work/ROOT.iam"))
	require.NoError(t, err)

	// A.ipt is placed twice; the second placement is a hit but still a record.
	assert.Equal(t, []string{"A-1", "B-1", "C-1", "A-1", "D-1"}, partNumbers(res.Records))
	assert.Equal(t, int64(1), cache.Hits())
	assert.Equal(t, res.Records[0], res.Records[3])
}

func TestCachingExtractor_FailuresNotCached(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `
documents:
  - path: bad.ipt
    type: part
`)
	cache, err := NewCachingExtractor(NewExtractor(nil), 10)
	require.NoError(t, err)
	defer cache.Close()

	doc := openDocument(t, f, "bad.ipt")
	_, err = cache.Extract(doc)
	assert.ErrorIs(t, err, ErrPropertyRead)
	_, err = cache.Extract(doc)
	assert.ErrorIs(t, err, ErrPropertyRead)
	assert.Equal(t, int64(0), cache.Hits())
}

func TestCachingExtractor_Invalidate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nestedFixture)
	cache, err := NewCachingExtractor(NewExtractor(nil), 10)
	require.NoError(t, err)
	defer cache.Close()

	doc := openDocument(t, f, "C:/work/A.ipt")
	_, err = cache.Extract(doc)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cache.Hits())
}

func TestFilter(t *testing.T) {
	t.Parallel()

	filter, err := NewFilter([]string{"**/Content Center Files/**", "*.tmp.ipt"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{path: `C:\Users\Public\Documents\Autodesk\Inventor 2025\Content Center Files\en-US\ISO 4762\M6x20.ipt`, want: true},
		{path: "C:/Users/Public/content center files/bolt.ipt", want: true},
		{path: "scratch.tmp.ipt", want: true},
		{path: "C:/work/SHAFT.ipt", want: false},
	}
	for _, tt := range tests {
		_, got := filter.Excluded(tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	var none *Filter
	_, excluded := none.Excluded("anything")
	assert.False(t, excluded)
}

func TestFilter_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFilter([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestStructure_Tree(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nestedFixture)
	tr := NewTraverser(NewExtractor(nil), zaptest.NewLogger(t), Options{})
	res, err := tr.TraverseDocument(context.Background(), openDocument(t, f, "C:/work/ROOT.iam"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.Structure.WriteTree(&buf))
	assert.Equal(t, `ROOT.iam
  A.ipt
  D.ipt
  SUB.iam
    B.ipt
    DEEP.iam
      A.ipt
      C.ipt
`, buf.String())

	assert.Equal(t, "C:/work/ROOT.iam", res.Structure.Root())
	assert.Equal(t, 7, res.Structure.Documents())
}

func TestStructure_Multiplier(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `
documents:
  - path: root.iam
    type: assembly
    occurrences:
      - {name: "BOLT:1", document: bolt.ipt}
      - {name: "BOLT:2", document: bolt.ipt}
      - {name: "BOLT:3", document: bolt.ipt}
  - path: bolt.ipt
    type: part
    properties: {Design Tracking Properties: {Part Number: B, Description: Bolt}}
`)
	tr := NewTraverser(NewExtractor(nil), zaptest.NewLogger(t), Options{})
	res, err := tr.TraverseDocument(context.Background(), openDocument(t, f, "root.iam"))
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)

	var tree, dot bytes.Buffer
	require.NoError(t, res.Structure.WriteTree(&tree))
	assert.Equal(t, "root.iam\n  bolt.ipt x3\n", tree.String())

	require.NoError(t, res.Structure.WriteDOT(&dot))
	assert.Contains(t, dot.String(), "root.iam")
	assert.Contains(t, dot.String(), "bolt.ipt")
}
