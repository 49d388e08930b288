package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/storage"
)

// MSD returns the mean squared displacement of every frame from the first.
// Frames must hold the same particles in the same order.
func MSD(frames []storage.Frame) ([]float64, error) {
	if len(frames) == 0 {
		return nil, nil
	}
	ref := frames[0].Pos
	out := make([]float64, len(frames))
	for f, frame := range frames {
		if len(frame.Pos) != len(ref) {
			return nil, fmt.Errorf("%w: frame at step %d has %d particles, first has %d",
				dynamo.ErrInvalidParams, frame.Step, len(frame.Pos), len(ref))
		}
		if len(ref) == 0 {
			continue
		}
		var sum float64
		for i, p := range frame.Pos {
			sum += p.XYZ().Sub(ref[i].XYZ()).Norm2()
		}
		out[f] = sum / float64(len(ref))
	}
	return out, nil
}

// BondStats summarises the bond lengths of one frame.
type BondStats struct {
	Count    int
	Mean     float64
	StdDev   float64
	Min, Max float64
}

// BondLengths measures each edge of frame under the minimum image of its
// box. Edges that name a particle outside the frame are an error.
func BondLengths(frame storage.Frame, edges [][2]int) (BondStats, error) {
	params := dynamo.Params{N: len(frame.Pos), L: frame.L}
	stats := BondStats{Min: math.Inf(1), Max: math.Inf(-1)}
	if len(edges) == 0 {
		return BondStats{}, nil
	}

	var sum, sum2 float64
	for _, e := range edges {
		if e[0] < 0 || e[1] < 0 || e[0] >= params.N || e[1] >= params.N {
			return BondStats{}, fmt.Errorf("%w: edge %d-%d outside %d particles", dynamo.ErrInvalidTopology, e[0], e[1], params.N)
		}
		r := params.MinImage(frame.Pos[e[1]].XYZ().Sub(frame.Pos[e[0]].XYZ())).Norm()
		sum += r
		sum2 += r * r
		stats.Min = math.Min(stats.Min, r)
		stats.Max = math.Max(stats.Max, r)
	}

	n := float64(len(edges))
	stats.Count = len(edges)
	stats.Mean = sum / n
	stats.StdDev = math.Sqrt(math.Max(0, sum2/n-stats.Mean*stats.Mean))
	return stats, nil
}
