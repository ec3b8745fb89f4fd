package mcp

// ListControlsInput is the input for the list_controls tool.
type ListControlsInput struct{}

// ControlInfo describes one control. Parent is empty for the root.
type ControlInfo struct {
	ID          string `json:"id"`
	Parent      string `json:"parent,omitempty"`
	Depth       int    `json:"depth"`
	Name        string `json:"name,omitempty"`
	Kind        string `json:"kind"`
	Tag         string `json:"tag,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Background  string `json:"background,omitempty"`
	Foreground  string `json:"foreground,omitempty"`
	Title       string `json:"title,omitempty"`
	WindowStyle string `json:"window_style,omitempty"`
	Focused     bool   `json:"focused,omitempty"`
}

// ListControlsOutput is the output for the list_controls tool. Controls are
// in paint order, parents before children.
type ListControlsOutput struct {
	SurfaceWidth  int           `json:"surface_width"`
	SurfaceHeight int           `json:"surface_height"`
	Dragging      string        `json:"dragging,omitempty"`
	Controls      []ControlInfo `json:"controls"`
}

// AddWindowInput is the input for the add_window tool.
type AddWindowInput struct {
	Parent      string `json:"parent,omitempty" jsonschema:"ID or name of the container to add to (default: the desktop)"`
	Kind        string `json:"kind,omitempty" jsonschema:"window (default), container or control"`
	Name        string `json:"name" jsonschema:"Name used by remove_child and lookups"`
	Tag         string `json:"tag,omitempty" jsonschema:"Free-form user string"`
	Title       string `json:"title,omitempty" jsonschema:"Window title"`
	WindowStyle string `json:"window_style,omitempty" jsonschema:"sizable (default), fixed, dialog, tool or none"`
	X           int    `json:"x,omitempty" jsonschema:"Left edge relative to the parent content region"`
	Y           int    `json:"y,omitempty" jsonschema:"Top edge relative to the parent content region"`
	Width       int    `json:"width,omitempty" jsonschema:"Width (default: 25)"`
	Height      int    `json:"height,omitempty" jsonschema:"Height (default: 25)"`
	Background  string `json:"background,omitempty" jsonschema:"Background color, #rrggbb or a basic color name"`
	Foreground  string `json:"foreground,omitempty" jsonschema:"Foreground color, #rrggbb or a basic color name"`
}

// RemoveChildInput is the input for the remove_child tool.
type RemoveChildInput struct {
	Parent string `json:"parent,omitempty" jsonschema:"ID or name of the container (default: the desktop)"`
	Name   string `json:"name" jsonschema:"Name of the child; the most recently added match is removed"`
}

// RemoveChildOutput is the output for the remove_child tool.
type RemoveChildOutput struct {
	Removed bool   `json:"removed"`
	ID      string `json:"id,omitempty"`
}

// SetGeometryInput is the input for the set_geometry tool. Omitted fields
// keep their value.
type SetGeometryInput struct {
	Ref    string `json:"ref" jsonschema:"ID or name of the control"`
	X      *int   `json:"x,omitempty" jsonschema:"New left edge"`
	Y      *int   `json:"y,omitempty" jsonschema:"New top edge"`
	Width  *int   `json:"width,omitempty" jsonschema:"New width"`
	Height *int   `json:"height,omitempty" jsonschema:"New height"`
}

// SetColorsInput is the input for the set_colors tool.
type SetColorsInput struct {
	Ref        string  `json:"ref" jsonschema:"ID or name of the control"`
	Background *string `json:"background,omitempty" jsonschema:"Background color; empty string resets to the theme"`
	Foreground *string `json:"foreground,omitempty" jsonschema:"Foreground color; empty string resets to the theme"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	Ref   string `json:"ref" jsonschema:"ID or name of the window"`
	Title string `json:"title" jsonschema:"New title"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	Ref       string `json:"ref,omitempty" jsonschema:"ID or name of the window; empty blurs every window"`
	Direction string `json:"direction,omitempty" jsonschema:"up, down, left or right: move focus to the nearest top-level window instead of naming one"`
}

// FocusWindowOutput is the output for the focus_window tool.
type FocusWindowOutput struct {
	Focused []string `json:"focused"`
}

// PointerInput is the input for the pointer tool.
type PointerInput struct {
	Action string `json:"action" jsonschema:"down, move or up"`
	X      int    `json:"x" jsonschema:"Surface x coordinate"`
	Y      int    `json:"y" jsonschema:"Surface y coordinate"`
}

// PointerOutput is the output for the pointer tool.
type PointerOutput struct {
	Phase    string `json:"phase"`
	Dragging string `json:"dragging,omitempty"`
}

// ArrangeWindowsInput is the input for the arrange_windows tool.
type ArrangeWindowsInput struct {
	Mode string `json:"mode" jsonschema:"cascade, grid, vertical or horizontal"`
}

// ArrangeWindowsOutput is the output for the arrange_windows tool.
type ArrangeWindowsOutput struct {
	Windows []ControlInfo `json:"windows"`
}

// ResizeSurfaceInput is the input for the resize_surface tool.
type ResizeSurfaceInput struct {
	Width  int `json:"width" jsonschema:"New surface width"`
	Height int `json:"height" jsonschema:"New surface height"`
}

// ResizeSurfaceOutput is the output for the resize_surface tool.
type ResizeSurfaceOutput struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Pending is set when the host confirms the size asynchronously (x11).
	// Windows are re-clamped once it does.
	Pending bool `json:"pending,omitempty"`
}
