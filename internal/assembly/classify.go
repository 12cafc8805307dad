package assembly

import (
	"fmt"

	"github.com/tbre-automation/partslist/internal/host"
)

// Kind is the outcome of classifying an occurrence.
type Kind int

const (
	Invalid Kind = iota
	LeafPart
	SubAssembly
)

func (k Kind) String() string {
	switch k {
	case LeafPart:
		return "part"
	case SubAssembly:
		return "sub-assembly"
	default:
		return "invalid"
	}
}

// Classification is the result of Classify. Document is set for valid
// occurrences; Err is set for invalid ones and wraps ErrInvalidOccurrence.
type Classification struct {
	Kind     Kind
	Document host.Document
	Err      error
}

// Classify inspects an occurrence without side effects on the host. The
// definition must resolve before the document-type discriminant is trusted.
// A resolved document is released when the occurrence is rejected; otherwise
// the caller owns Document.
func Classify(occ host.Occurrence) Classification {
	doc, err := occ.Definition()
	if err != nil {
		return invalid(occ, fmt.Errorf("definition: %w", err))
	}
	if doc == nil {
		return invalid(occ, fmt.Errorf("definition is empty"))
	}

	typ, err := occ.DefinitionType()
	if err != nil {
		host.Release(doc)
		return invalid(occ, fmt.Errorf("document type: %w", err))
	}

	switch typ {
	case host.PartDocument:
		return Classification{Kind: LeafPart, Document: doc}
	case host.AssemblyDocument:
		return Classification{Kind: SubAssembly, Document: doc}
	default:
		host.Release(doc)
		return invalid(occ, fmt.Errorf("unsupported document type %s", typ))
	}
}

func invalid(occ host.Occurrence, err error) Classification {
	return Classification{
		Kind: Invalid,
		Err:  fmt.Errorf("%w %q: %w", ErrInvalidOccurrence, occ.Name(), err),
	}
}
