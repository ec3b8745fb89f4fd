package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is one enabled CRTC in root window coordinates. Only its size is
// used: the surface window opens on the monitor under the pointer.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

var errNoMonitors = errors.New("no enabled monitors")

// Monitors lists enabled CRTCs through XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var out []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		mon := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("crtc-%d", i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		if o, err := randr.GetOutputInfo(xc, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			mon.Name = string(o.Name)
		}
		out = append(out, mon)
	}
	return out, nil
}

// PointerMonitor returns the monitor under the pointer, or the first one
// when the pointer cannot be located.
func (c *Connection) PointerMonitor() (*Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if mon := monitorAt(monitors, int(p.RootX), int(p.RootY)); mon != nil {
			return mon, nil
		}
	}
	return &monitors[0], nil
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		m := &monitors[i]
		if x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height {
			return m
		}
	}
	return nil
}
