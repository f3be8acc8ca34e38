package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/models"
)

// Canvas defaults.
const (
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultBackground = models.DefaultBackground
)

// ErrUnsupportedFormat is returned by GetRenderer for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string  // Output format (svg, ascii, json, dot)
	Width      float64 // Width of the canvas
	Height     float64 // Height of the canvas
	Background string  // Background color
	Fit        bool    // Frame the drawing around the nodes instead of the fixed canvas
	Padding    float64 // Margin around the nodes when Fit is set
	Timestamp  bool    // Include the snapshot time
	ShowLabels bool    // Show node ids
	Color      bool    // Colorize ASCII output with ANSI escapes
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws one editor frame using the provided options
	Render(snap *models.Snapshot, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: DefaultBackground,
		Padding:    models.DefaultNodeRadius,
	}
}

// Formats lists the names GetRenderer accepts.
func Formats() []string {
	return []string{"svg", "ascii", "json", "dot"}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// Generate renders snap in the named format with default options.
func Generate(snap *models.Snapshot, format string) ([]byte, error) {
	return GenerateWithOptions(snap, NewDefaultOptions(format))
}

// GenerateWithOptions renders snap with specific output options
func GenerateWithOptions(snap *models.Snapshot, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(snap, options)
	return out, errors.Wrapf(err, "render %s", renderer.Name())
}

// viewport is the region of snapshot space that is drawn.
type viewport struct {
	x, y, w, h float64
}

func viewportFor(snap *models.Snapshot, options *OutputOptions) viewport {
	if !options.Fit || len(snap.Nodes) == 0 {
		return viewport{w: options.Width, h: options.Height}
	}
	minX, minY, maxX, maxY := snap.Bounds()
	p := options.Padding
	return viewport{
		x: minX - p,
		y: minY - p,
		w: max(maxX-minX+2*p, 1),
		h: max(maxY-minY+2*p, 1),
	}
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the editor canvas as Scalable Vector Graphics (SVG)"
}

// Render creates an SVG representation of the frame
func (r *SVGRenderer) Render(snap *models.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	vp := viewportFor(snap, options)

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="%g %g %g %g" xmlns="http://www.w3.org/2000/svg">
<rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>
`, options.Width, options.Height, vp.x, vp.y, vp.w, vp.h, vp.x, vp.y, vp.w, vp.h, options.Background)

	// Edges go under the nodes.
	for _, e := range snap.Edges {
		if snap.Directed {
			a := e.Arrow
			fmt.Fprintf(&buf, `<g class="edge" id="%s" stroke="%s" stroke-width="%g" stroke-opacity="%g" stroke-linecap="round">
  <line x1="%g" y1="%g" x2="%g" y2="%g"/>
  <line x1="%g" y1="%g" x2="%g" y2="%g"/>
  <line x1="%g" y1="%g" x2="%g" y2="%g"/>
</g>
`, e.ID, e.Color, e.StrokeWidth, e.Opacity,
				a.ShaftFrom.X, a.ShaftFrom.Y, a.ShaftTo.X, a.ShaftTo.Y,
				a.ShaftTo.X, a.ShaftTo.Y, a.Left.X, a.Left.Y,
				a.ShaftTo.X, a.ShaftTo.Y, a.Right.X, a.Right.Y)
			continue
		}
		fmt.Fprintf(&buf, `<line class="edge" id="%s" x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="%g" stroke-opacity="%g"/>
`, e.ID, e.From.X, e.From.Y, e.To.X, e.To.Y, e.Color, e.StrokeWidth, e.Opacity)
	}

	for _, n := range snap.Nodes {
		fmt.Fprintf(&buf, `<circle class="node" id="%s" cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>
`, n.ID, n.Position.X, n.Position.Y, n.Radius*n.Scale(), n.FillColor, n.BorderColor, n.BorderWidth)

		if options.ShowLabels {
			fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="10" fill="#333333" text-anchor="middle">%s</text>
`, n.Position.X, n.Position.Y+n.Radius*n.Scale()+12, n.ID)
		}
	}

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="8" fill="#808080">frame %d %s</text>
`, vp.x+5, vp.y+vp.h-5, snap.Frame, snap.TakenAt.Format(time.DateTime))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// ASCII cell markers.
const (
	nodeRune     = 'O'
	hotNodeRune  = '@'
	edgeRune     = '.'
	disabledRune = ':'
)

type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleHot
	styleDim
	styleArrow
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the editor canvas as ASCII art for terminal output"
}

// Render creates an ASCII representation of the frame
func (r *ASCIIRenderer) Render(snap *models.Snapshot, options *OutputOptions) ([]byte, error) {
	// Scale down, with an adjustment for the character aspect ratio
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)
	vp := viewportFor(snap, options)

	grid := make([][]rune, height)
	styles := make([][]cellStyle, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
		styles[i] = make([]cellStyle, width)
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	toCell := func(x, y float64) (int, int) {
		cx := int((x-vp.x)*float64(width-2)/vp.w) + 1
		cy := int((y-vp.y)*float64(height-2)/vp.h) + 1
		return clamp(cx, 1, width-2), clamp(cy, 1, height-2)
	}

	for _, e := range snap.Edges {
		x1, y1 := toCell(e.From.X, e.From.Y)
		x2, y2 := toCell(e.To.X, e.To.Y)

		mark, style := edgeRune, styleNone
		if !e.Enabled {
			mark, style = disabledRune, styleDim
		}
		drawLine(grid, styles, x1, y1, x2, y2, mark, style)

		if snap.Directed {
			hx, hy := toCell(e.Arrow.ShaftTo.X, e.Arrow.ShaftTo.Y)
			grid[hy][hx] = arrowRune(x2-x1, y2-y1)
			styles[hy][hx] = styleArrow
		}
	}

	for _, n := range snap.Nodes {
		x, y := toCell(n.Position.X, n.Position.Y)
		if n.Scale() > 1 {
			grid[y][x] = hotNodeRune
			styles[y][x] = styleHot
		} else {
			grid[y][x] = nodeRune
			styles[y][x] = styleNone
		}

		if options.ShowLabels && y+1 < height-1 {
			label := []rune(n.ID)
			for i := 0; i < len(label) && x+i < width-1; i++ {
				grid[y+1][x+i] = label[i]
				styles[y+1][x+i] = styleNone
			}
		}
	}

	title := fmt.Sprintf(" forcepad [%s] ", snap.Mode)
	if len(title) < width-4 {
		for i, c := range title {
			grid[0][i+2] = c
		}
	}

	if options.Timestamp {
		stamp := fmt.Sprintf(" frame %d ", snap.Frame)
		if len(stamp) < width-4 {
			for i, c := range stamp {
				grid[height-1][i+2] = c
			}
		}
	}

	paint := painters(options.Color)
	var result strings.Builder
	for y, row := range grid {
		for x, c := range row {
			if p := paint[styles[y][x]]; p != nil {
				result.WriteString(p.Sprint(string(c)))
				continue
			}
			result.WriteRune(c)
		}
		result.WriteRune('\n')
	}

	return []byte(result.String()), nil
}

// painters maps cell styles to colors. Without enabled it returns an empty
// map, so output is plain text regardless of the terminal.
func painters(enabled bool) map[cellStyle]*color.Color {
	if !enabled {
		return map[cellStyle]*color.Color{}
	}
	m := map[cellStyle]*color.Color{
		styleHot:   color.New(color.FgYellow, color.Bold),
		styleDim:   color.New(color.Faint),
		styleArrow: color.New(color.FgCyan),
	}
	for _, c := range m {
		c.EnableColor()
	}
	return m
}

func arrowRune(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy > 0 {
		return 'v'
	}
	return '^'
}

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the snapshot as JSON for machine consumption or custom clients"
}

// Render creates a JSON representation of the frame
func (r *JSONRenderer) Render(snap *models.Snapshot, options *OutputOptions) ([]byte, error) {
	type jsonCanvas struct {
		Width      float64 `json:"width"`
		Height     float64 `json:"height"`
		Background string  `json:"background"`
	}

	type jsonFrame struct {
		*models.Snapshot
		Canvas jsonCanvas `json:"canvas"`
	}

	return json.MarshalIndent(jsonFrame{
		Snapshot: snap,
		Canvas: jsonCanvas{
			Width:      options.Width,
			Height:     options.Height,
			Background: options.Background,
		},
	}, "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the graph in Graphviz DOT format with pinned positions"
}

// Render creates a DOT representation of the frame
func (r *DOTRenderer) Render(snap *models.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	kind, arrow := "digraph", "->"
	if !snap.Directed {
		kind, arrow = "graph", "--"
	}

	fmt.Fprintf(&buf, "%s G {\n", kind)
	fmt.Fprintf(&buf, "  graph [bgcolor=\"%s\", size=\"%g,%g\"];\n",
		options.Background, options.Width/72.0, options.Height/72.0)
	buf.WriteString("  node [shape=circle, style=filled, label=\"\"];\n")

	// DOT's y axis points up.
	for _, n := range snap.Nodes {
		fmt.Fprintf(&buf, "  \"%s\" [fillcolor=\"%s\", color=\"%s\", penwidth=%g, width=%g, pos=\"%g,%g!\"];\n",
			n.ID, n.FillColor, n.BorderColor, n.BorderWidth, 2*n.Radius*n.Scale()/72.0,
			n.Position.X, -n.Position.Y)
	}

	for _, e := range snap.Edges {
		style := "solid"
		if !e.Enabled {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  \"%s\" %s \"%s\" [color=\"%s\", penwidth=%g, style=%s];\n",
			e.Source, arrow, e.Target, e.Color, e.StrokeWidth, style)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Draw a line on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, styles [][]cellStyle, x1, y1, x2, y2 int, mark rune, style cellStyle) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) {
			// Enabled edges win over disabled ones where they cross
			if grid[y1][x1] == ' ' || (grid[y1][x1] == disabledRune && mark == edgeRune) {
				grid[y1][x1] = mark
				styles[y1][x1] = style
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				break
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				break
			}
			err += dx
			y1 += sy
		}
	}
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
