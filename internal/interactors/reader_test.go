package interactors

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/mdsim/internal/dynamo"
)

func TestReadBonds(t *testing.T) {
	input := `# two springs
0 1 1.0 10.0

2 1 0.5 3e2
`
	bonds, err := ReadBonds(strings.NewReader(input), "inline")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	want := []Bond{{I: 0, J: 1, R0: 1.0, K: 10.0}, {I: 2, J: 1, R0: 0.5, K: 300}}
	if len(bonds) != len(want) {
		t.Fatalf("expected %d bonds, got %d", len(want), len(bonds))
	}
	for i := range want {
		if bonds[i] != want[i] {
			t.Errorf("bond %d: got %+v, want %+v", i, bonds[i], want[i])
		}
	}
}

func TestReadBondsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"too few fields", "0 1 1.0\n", 1},
		{"too many fields", "0 1 1.0 2.0\n0 1 1 1 1\n", 2},
		{"float id", "0.5 1 1.0 2.0\n", 1},
		{"bad float", "0 1 abc 2.0\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBonds(strings.NewReader(tt.input), "bonds.txt")
			if !errors.Is(err, dynamo.ErrMalformedInputLine) {
				t.Fatalf("expected ErrMalformedInputLine, got %v", err)
			}
			var le *dynamo.LineError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LineError, got %T", err)
			}
			if le.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, le.Line)
			}
		})
	}
}

func TestReadThreeBonds(t *testing.T) {
	bonds, err := ReadThreeBonds(strings.NewReader("0 1 2 1.0 5.0 1.5707963\n"), "inline")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(bonds) != 1 || bonds[0].J != 1 || bonds[0].Kspring != 5 {
		t.Errorf("unexpected bonds: %+v", bonds)
	}

	if _, err := ReadThreeBonds(strings.NewReader("0 1 2 1.0 5.0\n"), "inline"); !errors.Is(err, dynamo.ErrMalformedInputLine) {
		t.Errorf("expected ErrMalformedInputLine, got %v", err)
	}
}

func TestLoadBondedForcesFromFile(t *testing.T) {
	bonds := []Bond{{I: 0, J: 1, R0: 1, K: 10}, {I: 1, J: 2, R0: 1.5, K: 2}}
	var buf bytes.Buffer
	if err := WriteBonds(&buf, bonds); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bonds.txt")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	p := dynamo.NewParticles(3)
	bf, err := LoadBondedForces(p, openParams(3), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if bf.NumBonds() != 2 {
		t.Errorf("expected 2 bonds, got %d", bf.NumBonds())
	}

	if _, err := LoadBondedForces(p, openParams(3), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBondedForcesRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bonds.txt")
	if err := os.WriteFile(path, []byte("0 7 1 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadBondedForces(dynamo.NewParticles(3), openParams(3), path)
	if !errors.Is(err, dynamo.ErrInvalidTopology) {
		t.Errorf("expected ErrInvalidTopology, got %v", err)
	}
}
