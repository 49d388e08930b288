package dynamo

// Particles owns the position and force buffers shared by one integrator and any
// number of interactors. Consumers never hold the slices; they hold one of the
// handles below, each exposing only the writes its role is allowed to make:
//
//   - Integrators write positions and read/clear forces ([Motion]).
//   - Interactors read positions and add into forces ([ForceSink]).
//   - The write path reads positions only ([PositionView]).
type Particles struct {
	pos   []Vec4
	force []Vec4
}

func NewParticles(n int) *Particles {
	return &Particles{
		pos:   make([]Vec4, n),
		force: make([]Vec4, n),
	}
}

// NewParticlesFrom copies the given positions (W is the type tag).
func NewParticlesFrom(pos []Vec4) *Particles {
	p := NewParticles(len(pos))
	copy(p.pos, pos)
	return p
}

func (p *Particles) N() int { return len(p.pos) }

func (p *Particles) Positions() PositionView { return PositionView{p: p} }
func (p *Particles) ForceSink() ForceSink    { return ForceSink{PositionView{p: p}} }
func (p *Particles) Motion() Motion          { return Motion{p: p} }

// SetPosition is for setup code in the composition root, before the run starts.
func (p *Particles) SetPosition(i int, r Vec3, typ float64) {
	p.pos[i] = r.WithW(typ)
}

// ResetForces zeroes the force buffer.
func (p *Particles) ResetForces() {
	for i := range p.force {
		p.force[i] = Vec4{}
	}
}

// Force returns the accumulated force and energy of particle i.
func (p *Particles) Force(i int) Vec4 { return p.force[i] }

// PositionView is a read-only handle on positions.
type PositionView struct {
	p *Particles
}

func (v PositionView) Len() int           { return len(v.p.pos) }
func (v PositionView) At(i int) Vec4      { return v.p.pos[i] }
func (v PositionView) Pos(i int) Vec3     { return v.p.pos[i].XYZ() }
func (v PositionView) Type(i int) float64 { return v.p.pos[i].W }

// CopyTo fills dst with the current positions and returns it, growing it if needed.
func (v PositionView) CopyTo(dst []Vec4) []Vec4 {
	if cap(dst) < len(v.p.pos) {
		dst = make([]Vec4, len(v.p.pos))
	}
	dst = dst[:len(v.p.pos)]
	copy(dst, v.p.pos)
	return dst
}

// ForceSink lets an interactor read positions and add into the force buffer.
// Each slot must be written by a single worker at a time.
type ForceSink struct {
	PositionView
}

func (s ForceSink) Add(i int, f Vec3, energy float64) {
	slot := &s.p.force[i]
	slot.X += f.X
	slot.Y += f.Y
	slot.Z += f.Z
	slot.W += energy
}

// Motion is the integrator's handle: position writes, force reads and clears.
type Motion struct {
	p *Particles
}

func (m Motion) Len() int                { return len(m.p.pos) }
func (m Motion) Pos(i int) Vec3          { return m.p.pos[i].XYZ() }
func (m Motion) Force(i int) Vec3        { return m.p.force[i].XYZ() }
func (m Motion) Energy(i int) float64    { return m.p.force[i].W }
func (m Motion) Positions() PositionView { return PositionView{p: m.p} }

// SetPos moves particle i, keeping its type tag.
func (m Motion) SetPos(i int, r Vec3) {
	typ := m.p.pos[i].W
	m.p.pos[i] = r.WithW(typ)
}

func (m Motion) ClearForce(i int) { m.p.force[i] = Vec4{} }

// FirstNonFinite returns the first particle whose force is NaN or Inf, or -1.
func (m Motion) FirstNonFinite() int {
	for i, f := range m.p.force {
		if !f.XYZ().IsFinite() || !finite(f.W) {
			return i
		}
	}
	return -1
}
