package host

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FixtureFile is the YAML layout understood by the fixture host.
//
//	documents:
//	  - path: C:/parts/GEARBOX.iam
//	    type: assembly
//	    occurrences:
//	      - name: "SHAFT:1"
//	        document: C:/parts/SHAFT.ipt
//	  - path: C:/parts/SHAFT.ipt
//	    type: part
//	    properties:
//	      Design Tracking Properties:
//	        Part Number: SH-001
//	        Description: Input shaft
//	    mass: 0.42
//	    center_of_mass: [0.0, 1.5, 12.0]
type FixtureFile struct {
	Documents []FixtureDocument `yaml:"documents"`
}

// FixtureDocument describes one document and the failures it should inject.
type FixtureDocument struct {
	Path         string                       `yaml:"path"`
	Type         string                       `yaml:"type"`
	TypeCode     int                          `yaml:"type_code"`
	Properties   map[string]map[string]string `yaml:"properties"`
	Mass         *float64                     `yaml:"mass"`
	CenterOfMass []float64                    `yaml:"center_of_mass"`
	Occurrences  []FixtureOccurrence          `yaml:"occurrences"`

	// Injected failures.
	OpenError           string `yaml:"open_error"`
	MassPropertiesError string `yaml:"mass_properties_error"`
	MassError           string `yaml:"mass_error"`
	CenterOfMassError   string `yaml:"center_of_mass_error"`
	OccurrencesError    string `yaml:"occurrences_error"`
}

// FixtureOccurrence is one placement of a fixture document.
type FixtureOccurrence struct {
	Name     string `yaml:"name"`
	Document string `yaml:"document"`

	// Injected failures.
	DefinitionError string `yaml:"definition_error"`
	TypeCode        int    `yaml:"type_code"`
}

// Fixture is an in-memory Application backed by a FixtureFile.
type Fixture struct {
	docs   map[string]*FixtureDocument
	closed bool
	opened []string
}

// OpenFixture reads a fixture file from disk.
func OpenFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fixture %s: %v", ErrConnection, path, err)
	}
	return NewFixture(data)
}

// NewFixture parses fixture YAML.
func NewFixture(data []byte) (*Fixture, error) {
	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fixture: %v", ErrConnection, err)
	}

	f := &Fixture{docs: make(map[string]*FixtureDocument, len(file.Documents))}
	for i := range file.Documents {
		doc := &file.Documents[i]
		if doc.Path == "" {
			return nil, fmt.Errorf("fixture document %d has no path", i)
		}
		if _, dup := f.docs[doc.Path]; dup {
			return nil, fmt.Errorf("fixture document %s defined twice", doc.Path)
		}
		f.docs[doc.Path] = doc
	}
	return f, nil
}

// OpenDocument implements Application.
func (f *Fixture) OpenDocument(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.closed {
		return nil, fmt.Errorf("%w: fixture host closed", ErrConnection)
	}
	doc, ok := f.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no such document", ErrDocumentOpen, path)
	}
	if doc.OpenError != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrDocumentOpen, path, doc.OpenError)
	}
	f.opened = append(f.opened, path)
	return &fixtureDocument{host: f, doc: doc}, nil
}

// Opened returns the paths passed to successful OpenDocument calls, in order.
func (f *Fixture) Opened() []string {
	return append([]string(nil), f.opened...)
}

// Close implements Application.
func (f *Fixture) Close() error {
	f.closed = true
	return nil
}

type fixtureDocument struct {
	host *Fixture
	doc  *FixtureDocument
}

func (d *fixtureDocument) Path() string { return d.doc.Path }

func (d *fixtureDocument) Type() (DocumentType, error) {
	return d.doc.documentType()
}

func (d *fixtureDocument) Occurrences() ([]Occurrence, error) {
	if d.host.closed {
		return nil, fmt.Errorf("%w: fixture host closed", ErrConnection)
	}
	if d.doc.OccurrencesError != "" {
		return nil, errors.New(d.doc.OccurrencesError)
	}
	t, err := d.doc.documentType()
	if err != nil {
		return nil, err
	}
	if t != AssemblyDocument {
		return nil, fmt.Errorf("%s is a %s document and has no occurrences", d.doc.Path, t)
	}

	occs := make([]Occurrence, 0, len(d.doc.Occurrences))
	for i := range d.doc.Occurrences {
		occs = append(occs, &fixtureOccurrence{host: d.host, occ: &d.doc.Occurrences[i]})
	}
	return occs, nil
}

func (d *fixtureDocument) Property(group, name string) (string, error) {
	props, ok := d.doc.Properties[group]
	if !ok {
		return "", fmt.Errorf("property set %q not found", group)
	}
	value, ok := props[name]
	if !ok {
		return "", fmt.Errorf("property %q not found in %q", name, group)
	}
	return value, nil
}

func (d *fixtureDocument) MassProperties() (MassProperties, error) {
	if d.doc.MassPropertiesError != "" {
		return nil, errors.New(d.doc.MassPropertiesError)
	}
	return fixtureMass{doc: d.doc}, nil
}

type fixtureMass struct {
	doc *FixtureDocument
}

func (m fixtureMass) Mass() (float64, error) {
	if m.doc.MassError != "" {
		return 0, errors.New(m.doc.MassError)
	}
	if m.doc.Mass == nil {
		return 0, errors.New("mass not computed")
	}
	return *m.doc.Mass, nil
}

func (m fixtureMass) CenterOfMass() (Vec3, error) {
	if m.doc.CenterOfMassError != "" {
		return Vec3{}, errors.New(m.doc.CenterOfMassError)
	}
	if len(m.doc.CenterOfMass) != 3 {
		return Vec3{}, fmt.Errorf("center of mass has %d components, want 3", len(m.doc.CenterOfMass))
	}
	c := m.doc.CenterOfMass
	return Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

type fixtureOccurrence struct {
	host *Fixture
	occ  *FixtureOccurrence
}

func (o *fixtureOccurrence) Name() string { return o.occ.Name }

func (o *fixtureOccurrence) Definition() (Document, error) {
	if o.occ.DefinitionError != "" {
		return nil, errors.New(o.occ.DefinitionError)
	}
	doc, ok := o.host.docs[o.occ.Document]
	if !ok {
		return nil, fmt.Errorf("unresolved reference %s", o.occ.Document)
	}
	return &fixtureDocument{host: o.host, doc: doc}, nil
}

func (o *fixtureOccurrence) DefinitionType() (DocumentType, error) {
	if o.occ.TypeCode != 0 {
		return DocumentType(o.occ.TypeCode), nil
	}
	doc, ok := o.host.docs[o.occ.Document]
	if !ok {
		return UnknownDocument, fmt.Errorf("unresolved reference %s", o.occ.Document)
	}
	return doc.documentType()
}

func (o *fixtureOccurrence) SubOccurrences() ([]Occurrence, error) {
	doc, err := o.Definition()
	if err != nil {
		return nil, err
	}
	return doc.Occurrences()
}

func (d *FixtureDocument) documentType() (DocumentType, error) {
	if d.TypeCode != 0 {
		return DocumentType(d.TypeCode), nil
	}
	switch d.Type {
	case "part":
		return PartDocument, nil
	case "assembly":
		return AssemblyDocument, nil
	default:
		return UnknownDocument, fmt.Errorf("document %s has unknown type %q", d.Path, d.Type)
	}
}
