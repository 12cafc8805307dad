//go:build !windows

package host

import (
	"context"
	"fmt"
	"runtime"
)

// InventorProgID is the COM program identifier of Autodesk Inventor.
const InventorProgID = "Inventor.Application"

// COMOptions configures the COM connection.
type COMOptions struct {
	Visible bool
}

// COM is unavailable outside Windows.
type COM struct{}

// ConnectCOM always fails outside Windows; use the fixture host instead.
func ConnectCOM(ctx context.Context, opts COMOptions) (*COM, error) {
	return nil, fmt.Errorf("%w: %s requires COM automation, not available on %s", ErrConnection, InventorProgID, runtime.GOOS)
}

// OpenDocument implements Application.
func (c *COM) OpenDocument(ctx context.Context, path string) (Document, error) {
	return nil, fmt.Errorf("%w: not connected", ErrConnection)
}

// Close implements Application.
func (c *COM) Close() error { return nil }
