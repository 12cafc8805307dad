package assembly

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tbre-automation/partslist/internal/host"
)

// Property group and names read for every part.
const (
	DesignTrackingProperties = "Design Tracking Properties"
	PartNumberProperty       = "Part Number"
	DescriptionProperty      = "Description"
)

// Extractor turns a part document into a Record.
type Extractor interface {
	Extract(doc host.Document) (Record, error)
}

// PropertyExtractor reads the design tracking properties and mass properties
// of a part document.
type PropertyExtractor struct {
	log *zap.Logger
}

// NewExtractor creates an extractor that logs soft failures to log.
func NewExtractor(log *zap.Logger) *PropertyExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &PropertyExtractor{log: log}
}

// Extract reads one part document. The part number and description are
// mandatory; any failure there is returned wrapped in ErrPropertyRead and no
// record is produced. Mass and center of mass are optional and read
// independently.
func (e *PropertyExtractor) Extract(doc host.Document) (Record, error) {
	path := doc.Path()

	partNumber, err := doc.Property(DesignTrackingProperties, PartNumberProperty)
	if err != nil {
		return Record{}, propertyError(path, PartNumberProperty, err)
	}
	description, err := doc.Property(DesignTrackingProperties, DescriptionProperty)
	if err != nil {
		return Record{}, propertyError(path, DescriptionProperty, err)
	}

	log := e.log.With(zap.String("document", path))
	mass, center := e.massProperties(doc, log)

	return NewRecord(path, partNumber, description, mass, center), nil
}

func (e *PropertyExtractor) massProperties(doc host.Document, log *zap.Logger) (*float64, *host.Vec3) {
	mp, err := doc.MassProperties()
	if err != nil {
		log.Warn("mass properties unavailable", zap.Error(fmt.Errorf("%w: %w", ErrOptionalExtraction, err)))
		return nil, nil
	}
	defer host.Release(mp)

	var mass *float64
	if m, err := mp.Mass(); err != nil {
		log.Warn("mass unavailable", zap.Error(fmt.Errorf("%w: mass: %w", ErrOptionalExtraction, err)))
	} else {
		mass = &m
		log.Debug("got mass", zap.Float64("mass", m))
	}

	var center *host.Vec3
	if c, err := mp.CenterOfMass(); err != nil {
		log.Warn("center of mass unavailable", zap.Error(fmt.Errorf("%w: center of mass: %w", ErrOptionalExtraction, err)))
	} else {
		scaled := c.Scale(CenterOfMassScale)
		center = &scaled
		log.Debug("got center of mass", zap.Float64("x", scaled.X), zap.Float64("y", scaled.Y), zap.Float64("z", scaled.Z))
	}

	return mass, center
}

func propertyError(path, name string, err error) error {
	return fmt.Errorf("%w: %s: %q/%q: %w", ErrPropertyRead, path, DesignTrackingProperties, name, err)
}
