//go:build windows

package host

import (
	"context"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// InventorProgID is the COM program identifier of Autodesk Inventor.
const InventorProgID = "Inventor.Application"

// COMOptions configures the COM connection.
type COMOptions struct {
	// Visible makes the Inventor window visible after attaching.
	Visible bool
}

// COM is an Application backed by a running Inventor instance.
//
// COM apartments are per OS thread, so the connecting goroutine is locked to
// its thread until Close. All calls must come from that goroutine.
type COM struct {
	app *ole.IDispatch
}

// ConnectCOM attaches to a running Inventor instance, starting one if none is
// running.
func ConnectCOM(ctx context.Context, opts COMOptions) (*COM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE means COM was already initialised on this thread.
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != 1 {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: CoInitializeEx: %v", ErrConnection, err)
		}
	}

	unknown, err := oleutil.GetActiveObject(InventorProgID)
	if err != nil {
		unknown, err = oleutil.CreateObject(InventorProgID)
	}
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, InventorProgID, err)
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: IDispatch: %v", ErrConnection, err)
	}

	if _, err := oleutil.PutProperty(app, "Visible", opts.Visible); err != nil {
		app.Release()
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: set Visible: %v", ErrConnection, err)
	}

	return &COM{app: app}, nil
}

// OpenDocument implements Application. Documents are opened invisibly,
// matching Documents.Open(path, False).
func (c *COM) OpenDocument(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.app == nil {
		return nil, fmt.Errorf("%w: not connected", ErrConnection)
	}

	docs, err := dispatchProperty(c.app, "Documents")
	if err != nil {
		return nil, fmt.Errorf("%w: Documents: %v", ErrConnection, err)
	}
	defer docs.Release()

	v, err := oleutil.CallMethod(docs, "Open", path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentOpen, path, err)
	}
	return &comDocument{disp: v.ToIDispatch()}, nil
}

// Close releases the Inventor connection without quitting Inventor.
func (c *COM) Close() error {
	if c.app == nil {
		return nil
	}
	c.app.Release()
	c.app = nil
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil
}

type comDocument struct {
	disp *ole.IDispatch
}

// Release implements Releaser.
func (d *comDocument) Release() { releaseDispatch(&d.disp) }

func (d *comDocument) Path() string {
	v, err := oleutil.GetProperty(d.disp, "FullFileName")
	if err != nil {
		return ""
	}
	defer v.Clear()
	return v.ToString()
}

func (d *comDocument) Type() (DocumentType, error) {
	return documentTypeProperty(d.disp, "DocumentType")
}

func (d *comDocument) Occurrences() ([]Occurrence, error) {
	def, err := dispatchProperty(d.disp, "ComponentDefinition")
	if err != nil {
		return nil, err
	}
	defer def.Release()

	occs, err := dispatchProperty(def, "Occurrences")
	if err != nil {
		return nil, err
	}
	defer occs.Release()

	return collectOccurrences(occs)
}

func (d *comDocument) Property(group, name string) (string, error) {
	sets, err := dispatchProperty(d.disp, "PropertySets")
	if err != nil {
		return "", err
	}
	defer sets.Release()

	set, err := dispatchProperty(sets, "Item", group)
	if err != nil {
		return "", fmt.Errorf("property set %q: %w", group, err)
	}
	defer set.Release()

	prop, err := dispatchProperty(set, "Item", name)
	if err != nil {
		return "", fmt.Errorf("property %q: %w", name, err)
	}
	defer prop.Release()

	v, err := oleutil.GetProperty(prop, "Value")
	if err != nil {
		return "", fmt.Errorf("property %q value: %w", name, err)
	}
	defer v.Clear()

	if value := v.Value(); value != nil {
		return fmt.Sprint(value), nil
	}
	return "", nil
}

func (d *comDocument) MassProperties() (MassProperties, error) {
	def, err := dispatchProperty(d.disp, "ComponentDefinition")
	if err != nil {
		return nil, err
	}
	defer def.Release()

	mp, err := dispatchProperty(def, "MassProperties")
	if err != nil {
		return nil, err
	}
	return &comMass{disp: mp}, nil
}

type comMass struct {
	disp *ole.IDispatch
}

// Release implements Releaser.
func (m *comMass) Release() { releaseDispatch(&m.disp) }

func (m *comMass) Mass() (float64, error) {
	return floatProperty(m.disp, "Mass")
}

func (m *comMass) CenterOfMass() (Vec3, error) {
	point, err := dispatchProperty(m.disp, "CenterOfMass")
	if err != nil {
		return Vec3{}, err
	}
	defer point.Release()

	var v Vec3
	if v.X, err = floatProperty(point, "X"); err != nil {
		return Vec3{}, err
	}
	if v.Y, err = floatProperty(point, "Y"); err != nil {
		return Vec3{}, err
	}
	if v.Z, err = floatProperty(point, "Z"); err != nil {
		return Vec3{}, err
	}
	return v, nil
}

type comOccurrence struct {
	disp *ole.IDispatch
}

// Release implements Releaser.
func (o *comOccurrence) Release() { releaseDispatch(&o.disp) }

func (o *comOccurrence) Name() string {
	v, err := oleutil.GetProperty(o.disp, "Name")
	if err != nil {
		return ""
	}
	defer v.Clear()
	return v.ToString()
}

func (o *comOccurrence) Definition() (Document, error) {
	def, err := dispatchProperty(o.disp, "Definition")
	if err != nil {
		return nil, err
	}
	defer def.Release()

	doc, err := dispatchProperty(def, "Document")
	if err != nil {
		return nil, err
	}
	return &comDocument{disp: doc}, nil
}

func (o *comOccurrence) DefinitionType() (DocumentType, error) {
	return documentTypeProperty(o.disp, "DefinitionDocumentType")
}

func (o *comOccurrence) SubOccurrences() ([]Occurrence, error) {
	subs, err := dispatchProperty(o.disp, "SubOccurrences")
	if err != nil {
		return nil, err
	}
	defer subs.Release()
	return collectOccurrences(subs)
}

// collectOccurrences copies a 1-based COM collection into a slice. The
// caller releases the returned occurrences.
func collectOccurrences(coll *ole.IDispatch) ([]Occurrence, error) {
	count, err := intProperty(coll, "Count")
	if err != nil {
		return nil, err
	}
	occs := make([]Occurrence, 0, count)
	for i := 1; i <= count; i++ {
		item, err := dispatchProperty(coll, "Item", i)
		if err != nil {
			ReleaseAll(occs)
			return nil, fmt.Errorf("occurrence %d: %w", i, err)
		}
		occs = append(occs, &comOccurrence{disp: item})
	}
	return occs, nil
}

// releaseDispatch releases *disp once and clears it.
func releaseDispatch(disp **ole.IDispatch) {
	if *disp != nil {
		(*disp).Release()
		*disp = nil
	}
}

func dispatchProperty(disp *ole.IDispatch, name string, params ...interface{}) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(disp, name, params...)
	if err != nil {
		return nil, err
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("%s is not an object", name)
	}
	return d, nil
}

func floatProperty(disp *ole.IDispatch, name string) (float64, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	switch x := v.Value().(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%s: unexpected value %T", name, x)
	}
}

func intProperty(disp *ole.IDispatch, name string) (int, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	switch x := v.Value().(type) {
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case int:
		return x, nil
	default:
		return 0, fmt.Errorf("%s: unexpected value %T", name, x)
	}
}

func documentTypeProperty(disp *ole.IDispatch, name string) (DocumentType, error) {
	n, err := intProperty(disp, name)
	if err != nil {
		return UnknownDocument, err
	}
	return DocumentType(n), nil
}
