package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/storage"
)

func TestPowerSpectrumOddLength(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 2, 1, 2, 1})
	require.Len(t, ps, 3)
	for _, v := range ps {
		assert.False(t, math.IsNaN(v))
	}
}

func TestDominantFrequency(t *testing.T) {
	const interval = 0.01
	const freq = 6.25 // bin 32 of 512 samples at this interval
	data := make([]float64, 512)
	for i := range data {
		data[i] = 2 + math.Sin(2*math.Pi*freq*float64(i)*interval)
	}

	assert.InDelta(t, freq, DominantFrequency(data, interval), 1e-9)
	assert.Zero(t, DominantFrequency([]float64{3, 3, 3, 3}, interval))
	assert.Nil(t, PowerSpectrum(nil))
}

func TestMSD(t *testing.T) {
	frames := []storage.Frame{
		{Step: 0, Pos: []dynamo.Vec4{{}, {X: 1}}},
		{Step: 10, Pos: []dynamo.Vec4{{X: 1}, {X: 1}}},
		{Step: 20, Pos: []dynamo.Vec4{{Y: 2}, {X: 1, Z: 2}}},
	}
	msd, err := MSD(frames)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 4}, msd)

	frames = append(frames, storage.Frame{Step: 30, Pos: []dynamo.Vec4{{}}})
	_, err = MSD(frames)
	assert.ErrorIs(t, err, dynamo.ErrInvalidParams)
}

func TestBondLengths(t *testing.T) {
	frame := storage.Frame{L: 10, Pos: []dynamo.Vec4{{X: 0.5}, {X: 9.5}, {X: 2.5}}}

	stats, err := BondLengths(frame, [][2]int{{0, 1}, {0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 1.5, stats.Mean, 1e-12)
	assert.InDelta(t, 0.5, stats.StdDev, 1e-12)
	assert.InDelta(t, 1, stats.Min, 1e-12)
	assert.InDelta(t, 2, stats.Max, 1e-12)

	_, err = BondLengths(frame, [][2]int{{0, 3}})
	assert.ErrorIs(t, err, dynamo.ErrInvalidTopology)

	empty, err := BondLengths(frame, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
}
