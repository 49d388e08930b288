package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// Frame is one trajectory snapshot.
type Frame struct {
	Step int           `json:"step"`
	L    float64       `json:"box"`
	Pos  []dynamo.Vec4 `json:"positions"`
}

// writeFrame emits "#L=<L> step=<n>" followed by one "x y z type" row per particle.
func writeFrame(w *bufio.Writer, step int, L float64, pos []dynamo.Vec4) error {
	fmt.Fprintf(w, "#L=%s step=%d\n", formatFloat(L), step)
	for _, p := range pos {
		w.WriteString(formatFloat(p.X))
		w.WriteByte(' ')
		w.WriteString(formatFloat(p.Y))
		w.WriteByte(' ')
		w.WriteString(formatFloat(p.Z))
		w.WriteByte(' ')
		w.WriteString(formatFloat(p.W))
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ReadTrajectory parses frames written by a Run.
func ReadTrajectory(r io.Reader, name string) ([]Frame, error) {
	var (
		frames []Frame
		cur    *Frame
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			f, err := parseHeader(text)
			if err != nil {
				return nil, &dynamo.LineError{Path: name, Line: line, Text: text, Err: err}
			}
			frames = append(frames, f)
			cur = &frames[len(frames)-1]
			continue
		}
		if cur == nil {
			return nil, &dynamo.LineError{Path: name, Line: line, Text: text, Err: fmt.Errorf("position before frame header")}
		}
		p, err := parsePosition(text)
		if err != nil {
			return nil, &dynamo.LineError{Path: name, Line: line, Text: text, Err: err}
		}
		cur.Pos = append(cur.Pos, p)
	}
	return frames, sc.Err()
}

func parseHeader(text string) (Frame, error) {
	var f Frame
	fields := strings.Fields(strings.TrimPrefix(text, "#"))
	if len(fields) != 2 || !strings.HasPrefix(fields[0], "L=") || !strings.HasPrefix(fields[1], "step=") {
		return f, fmt.Errorf("expected \"#L=<L> step=<n>\"")
	}
	var err error
	if f.L, err = strconv.ParseFloat(strings.TrimPrefix(fields[0], "L="), 64); err != nil {
		return f, err
	}
	f.Step, err = strconv.Atoi(strings.TrimPrefix(fields[1], "step="))
	return f, err
}

// parsePosition reads "x y z [type]".
func parsePosition(text string) (dynamo.Vec4, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 && len(fields) != 4 {
		return dynamo.Vec4{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(fields))
	}
	var v [4]float64
	for i, field := range fields {
		x, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return dynamo.Vec4{}, err
		}
		v[i] = x
	}
	return dynamo.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}, nil
}

// ReadPositions reads an initial configuration, one "x y z [type]" line per
// particle. Blank lines and lines starting with # are skipped.
func ReadPositions(r io.Reader, name string) ([]dynamo.Vec4, error) {
	var pos []dynamo.Vec4
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := parsePosition(text)
		if err != nil {
			return nil, &dynamo.LineError{Path: name, Line: line, Text: text, Err: err}
		}
		pos = append(pos, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return pos, nil
}

func ReadPositionFile(path string) ([]dynamo.Vec4, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPositions(f, path)
}
