// Package host defines the narrow capability surface the parts list engine
// needs from a running CAD application.
//
// The engine never sees the host's object model. It only opens documents,
// walks occurrences, reads named properties and reads pre-computed mass
// properties. Two implementations ship with the tool:
//
//   - Fixture: an in-memory host loaded from a YAML description, used by tests
//     and for running the tool without a CAD installation.
//   - COM: Autodesk Inventor automation over COM (Windows only).
package host

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConnection indicates the host application cannot be reached or attached to.
	// It is fatal to the whole session.
	ErrConnection = errors.New("host connection failed")

	// ErrDocumentOpen indicates the host rejected a document path.
	// It is fatal to the current operation only.
	ErrDocumentOpen = errors.New("document open failed")
)

// DocumentType is the host's document-type discriminant.
type DocumentType int

// Values reported by Inventor's DocumentTypeEnum. Any other value is not a
// document the engine knows how to report on.
const (
	UnknownDocument  DocumentType = 0
	PartDocument     DocumentType = 12290
	AssemblyDocument DocumentType = 12291
)

// String returns a readable name for the document type.
func (t DocumentType) String() string {
	switch t {
	case PartDocument:
		return "part"
	case AssemblyDocument:
		return "assembly"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Vec3 is a 3D vector in host units unless stated otherwise.
type Vec3 struct {
	X, Y, Z float64
}

// Scale returns v with every component multiplied by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Application is a live connection to the host process.
type Application interface {
	// OpenDocument opens (or activates) the document at path.
	// Errors wrap ErrDocumentOpen, or ErrConnection if the host went away.
	OpenDocument(ctx context.Context, path string) (Document, error)

	// Close releases the connection.
	Close() error
}

// Document is an open part or assembly document.
type Document interface {
	Path() string
	Type() (DocumentType, error)

	// Occurrences returns the root occurrence collection of an assembly.
	Occurrences() ([]Occurrence, error)

	// Property reads a named property from a named property group.
	Property(group, name string) (string, error)

	// MassProperties returns the document's pre-computed mass properties.
	MassProperties() (MassProperties, error)
}

// Occurrence is one placement of a part or sub-assembly inside an assembly.
type Occurrence interface {
	Name() string

	// Definition resolves the referenced document. Unresolvable references
	// (missing files, suppressed links) return an error.
	Definition() (Document, error)

	DefinitionType() (DocumentType, error)

	// SubOccurrences returns the children of a sub-assembly occurrence.
	SubOccurrences() ([]Occurrence, error)
}

// MassProperties exposes mass and center of mass independently so one can
// fail without the other.
type MassProperties interface {
	// Mass in kilograms.
	Mass() (float64, error)

	// CenterOfMass in host length units (centimeters for Inventor).
	CenterOfMass() (Vec3, error)
}

// Releaser is implemented by handles that pin host resources until released.
// Fixture handles hold nothing and do not implement it.
type Releaser interface {
	Release()
}

// Release frees v if it holds host resources. Nil and non-releasing values
// are ignored.
func Release(v any) {
	if r, ok := v.(Releaser); ok {
		r.Release()
	}
}

// ReleaseAll releases every occurrence in occs.
func ReleaseAll(occs []Occurrence) {
	for _, occ := range occs {
		Release(occ)
	}
}
