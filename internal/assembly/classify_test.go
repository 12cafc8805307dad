package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Classify:
// - Part occurrence classifies as LeafPart with its document
// - Assembly occurrence classifies as SubAssembly
// - Unresolvable definition classifies as Invalid wrapping ErrInvalidOccurrence
// - Unsupported document type classifies as Invalid

func TestClassify(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nestedFixture)
	root := openDocument(t, f, "C:/work/ROOT.iam")
	rootOccs, err := root.Occurrences()
	require.NoError(t, err)
	sub := openDocument(t, f, "C:/work/SUB.iam")
	subOccs, err := sub.Occurrences()
	require.NoError(t, err)

	tests := []struct {
		name     string
		index    int
		sub      bool
		wantKind Kind
		wantPath string
	}{
		{name: "part", index: 0, wantKind: LeafPart, wantPath: "C:/work/A.ipt"},
		{name: "sub-assembly", index: 1, wantKind: SubAssembly, wantPath: "C:/work/SUB.iam"},
		{name: "unsupported type", index: 2, wantKind: Invalid},
		{name: "unresolvable definition", index: 1, sub: true, wantKind: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occs := rootOccs
			if tt.sub {
				occs = subOccs
			}
			c := Classify(occs[tt.index])

			assert.Equal(t, tt.wantKind, c.Kind)
			if tt.wantKind == Invalid {
				assert.ErrorIs(t, c.Err, ErrInvalidOccurrence)
				assert.Nil(t, c.Document)
				return
			}
			require.NoError(t, c.Err)
			require.NotNil(t, c.Document)
			assert.Equal(t, tt.wantPath, c.Document.Path())
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "part", LeafPart.String())
	assert.Equal(t, "sub-assembly", SubAssembly.String())
	assert.Equal(t, "invalid", Invalid.String())
}
