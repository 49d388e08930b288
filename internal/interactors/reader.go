package interactors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/mdsim/internal/dynamo"
)

// ReadBondFile reads a bond list, one "i j r0 k" per line. Blank lines and lines
// starting with '#' are skipped.
func ReadBondFile(path string) ([]Bond, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBonds(f, path)
}

func ReadBonds(r io.Reader, name string) ([]Bond, error) {
	var bonds []Bond
	err := scanRecords(r, name, 4, func(fields []string) error {
		ids, err := parseInts(fields[:2])
		if err != nil {
			return err
		}
		vals, err := parseFloats(fields[2:])
		if err != nil {
			return err
		}
		bonds = append(bonds, Bond{I: ids[0], J: ids[1], R0: vals[0], K: vals[1]})
		return nil
	})
	return bonds, err
}

// ReadThreeBondFile reads "i j k r0 kspring theta0" lines.
func ReadThreeBondFile(path string) ([]ThreeBond, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadThreeBonds(f, path)
}

func ReadThreeBonds(r io.Reader, name string) ([]ThreeBond, error) {
	var bonds []ThreeBond
	err := scanRecords(r, name, 6, func(fields []string) error {
		ids, err := parseInts(fields[:3])
		if err != nil {
			return err
		}
		vals, err := parseFloats(fields[3:])
		if err != nil {
			return err
		}
		bonds = append(bonds, ThreeBond{
			I: ids[0], J: ids[1], K: ids[2],
			R0: vals[0], Kspring: vals[1], Theta0: vals[2],
		})
		return nil
	})
	return bonds, err
}

func scanRecords(r io.Reader, name string, nfields int, record func([]string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != nfields {
			return &dynamo.LineError{Path: name, Line: line, Text: text,
				Err: fmt.Errorf("expected %d fields, got %d", nfields, len(fields))}
		}
		if err := record(fields); err != nil {
			return &dynamo.LineError{Path: name, Line: line, Text: text, Err: err}
		}
	}
	return sc.Err()
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, s := range fields {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteBonds writes bonds in the format ReadBonds accepts.
func WriteBonds(w io.Writer, bonds []Bond) error {
	bw := bufio.NewWriter(w)
	for _, b := range bonds {
		if _, err := fmt.Fprintf(bw, "%d %d %g %g\n", b.I, b.J, b.R0, b.K); err != nil {
			return err
		}
	}
	return bw.Flush()
}
