package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrNoSurface is returned when no host surface was specified.
	ErrNoSurface = errors.New("no surface specified")
	// ErrUnknownSurface is returned when a surface name has no registered driver.
	ErrUnknownSurface = errors.New("not a valid surface")
)

// OpenOptions configures a surface driver. Drivers ignore fields that do not
// apply to them.
type OpenOptions struct {
	// Width and Height size the headless surface.
	Width  int
	Height int
	// CellWidth and CellHeight map one terminal cell to surface units.
	CellWidth  int
	CellHeight int
	// Display is the X11 display name; empty uses $DISPLAY.
	Display string
	// Palette resolves drawable colors for drivers that paint.
	Palette Palette
}

// Palette resolves the effective colors of a drawable as 0xRRGGBB values.
type Palette interface {
	Colors(d Drawable) (background, foreground uint32)
}

// Opener creates a surface from options.
type Opener func(opts OpenOptions) (Surface, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Opener)
)

// Register makes a surface driver available by name. It panics if the name
// is registered twice or opener is nil.
func Register(name string, opener Opener) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if opener == nil {
		panic("platform: Register opener is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("platform: Register called twice for surface " + name)
	}
	drivers[name] = opener
}

// Drivers returns the sorted names of the registered surface drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open resolves a surface by driver name.
func Open(name string, opts OpenOptions) (Surface, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNoSurface
	}
	driversMu.RLock()
	opener, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q is %w (available: %s)", name, ErrUnknownSurface, strings.Join(Drivers(), ", "))
	}
	s, err := opener(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s surface: %w", name, err)
	}
	return s, nil
}
