package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/viz"
)

const background = "#0a0a0a"

// particle colours, cycled by type
var palette = []string{"#00ff88", "#ff6b6b", "#4dabf7", "#ffd43b", "#cc5de8"}

var dotMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width)*scale*2, float64(canvas.Height)*scale*4)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	r := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			cell := canvas.Grid[row][col]
			if cell < 0x2800 {
				continue
			}
			pattern := int(cell - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotMap[dy][dx] != 0 {
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
							baseX+float64(dx)*scale+scale/2, baseY+float64(dy)*scale+scale/2, r)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameToSVG draws one trajectory frame through cam: bonds as lines, then
// particles coloured by type. A nil cam is framed on the particles.
func FrameToSVG(frame storage.Frame, edges [][2]int, cam *viz.Camera, width, height int) string {
	if cam == nil {
		cam = viz.NewCamera()
		cam.Frame(dynamo.NewParticlesFrom(frame.Pos).Positions())
	}

	type point struct {
		x, y int
		ok   bool
	}
	pts := make([]point, len(frame.Pos))
	for i, p := range frame.Pos {
		x, y, ok := cam.Project(p.XYZ(), width, height)
		pts[i] = point{x, y, ok}
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888" font-family="monospace" font-size="12">step %d  L=%g</text>`+"\n", frame.Step, frame.L)

	sb.WriteString(`<g stroke="#555" stroke-width="1">` + "\n")
	for _, e := range edges {
		if e[0] >= len(pts) || e[1] >= len(pts) {
			continue
		}
		a, b := pts[e[0]], pts[e[1]]
		if !a.ok || !b.ok {
			continue
		}
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n", a.x, a.y, b.x, b.y)
	}
	sb.WriteString("</g>\n")

	r := math.Max(1.5, float64(min(width, height))/200)
	for i, p := range pts {
		if !p.ok {
			continue
		}
		colour := palette[int(math.Abs(frame.Pos[i].W))%len(palette)]
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%.1f" fill="%s"/>`+"\n", p.x, p.y, r, colour)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a single polyline.
func SeriesToSVG(values []float64, width, height int, stroke string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}
