package viz

import (
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// Camera is an orthographic-with-perspective view of the particle cloud,
// centred on Target.
type Camera struct {
	Target           dynamo.Vec3
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(50, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.02, c.Zoom/1.2) }

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a world position to dot coordinates on a sw x sh canvas.
// The last result reports whether the point is in front of the camera and
// on screen.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, bool) {
	rot := c.rotate(p.Sub(c.Target)).Scale(c.Zoom)
	if rot.Z >= c.Distance {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	unit := float64(min(sw, sh)) / 3.0
	sx := int(math.Round(rot.X*scale*unit)) + sw/2
	sy := int(math.Round(-rot.Y*scale*unit)) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Frame centres the camera on the particles and picks a zoom that fits them.
func (c *Camera) Frame(pos dynamo.PositionView) {
	n := pos.Len()
	if n == 0 {
		return
	}
	var centre dynamo.Vec3
	for i := 0; i < n; i++ {
		centre = centre.Add(pos.Pos(i))
	}
	centre = centre.Scale(1 / float64(n))

	var extent float64
	for i := 0; i < n; i++ {
		extent = math.Max(extent, pos.Pos(i).Sub(centre).Norm())
	}
	c.Target = centre
	if extent > 0 {
		c.Zoom = 1.2 / extent
	}
}
