// Package merge reshapes N parallel per-scheme data files into
// per-column files suitable for multi-series plotting: output file c
// holds, on line i, column c of line i from every input, in input
// order.
package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// MisalignedSeriesError reports input files that disagree on line count
// or column count.
type MisalignedSeriesError struct {
	File   string
	Detail string
}

func (e *MisalignedSeriesError) Error() string {
	return fmt.Sprintf("misaligned series in %s: %s", e.File, e.Detail)
}

// Options controls merge behavior.
type Options struct {
	// AllowRagged clips all inputs to the shortest line count instead
	// of failing, restoring the historical accumulate-by-index
	// behavior. Column counts must still agree.
	AllowRagged bool

	Log *zap.Logger
}

type input struct {
	path  string
	lines [][]string
}

// Columns merges the input files into outDir, one output file per
// column, named {prefix}-col-{c} with c 1-based. It returns the output
// paths in column order. Inputs must agree on column count; unequal
// line counts are a *MisalignedSeriesError unless Options.AllowRagged
// is set, in which case trailing lines beyond the shortest input are
// dropped with a warning.
func Columns(paths []string, outDir, prefix string, opts Options) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("merge: no input files")
	}

	inputs := make([]input, 0, len(paths))
	cols := -1
	for _, p := range paths {
		in, err := readColumns(p)
		if err != nil {
			return nil, err
		}
		if len(in.lines) == 0 {
			return nil, &MisalignedSeriesError{File: p, Detail: "empty input"}
		}
		if cols == -1 {
			cols = len(in.lines[0])
		}
		for i, fields := range in.lines {
			if len(fields) != cols {
				return nil, &MisalignedSeriesError{
					File:   p,
					Detail: fmt.Sprintf("line %d has %d columns, want %d", i+1, len(fields), cols),
				}
			}
		}
		inputs = append(inputs, in)
	}

	shortest, longest := len(inputs[0].lines), len(inputs[0].lines)
	for _, in := range inputs[1:] {
		if n := len(in.lines); n < shortest {
			shortest = n
		} else if n > longest {
			longest = n
		}
	}
	if shortest != longest {
		if !opts.AllowRagged {
			for _, in := range inputs {
				if len(in.lines) != shortest {
					return nil, &MisalignedSeriesError{
						File:   in.path,
						Detail: fmt.Sprintf("%d lines, shortest input has %d", len(in.lines), shortest),
					}
				}
			}
		}
		if opts.Log != nil {
			opts.Log.Warn("ragged inputs, clipping to shortest",
				zap.Int("shortest", shortest),
				zap.Int("longest", longest))
		}
	}

	outPaths := make([]string, 0, cols)
	for c := 0; c < cols; c++ {
		var b strings.Builder
		for i := 0; i < shortest; i++ {
			vals := make([]string, len(inputs))
			for j, in := range inputs {
				vals[j] = in.lines[i][c]
			}
			b.WriteString(strings.Join(vals, " "))
			b.WriteByte('\n')
		}
		out := filepath.Join(outDir, fmt.Sprintf("%s-col-%d", prefix, c+1))
		if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
			return nil, fmt.Errorf("merge: write %s: %w", out, err)
		}
		outPaths = append(outPaths, out)
	}
	return outPaths, nil
}

func readColumns(path string) (input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return input{}, fmt.Errorf("merge: read %s: %w", path, err)
	}
	in := input{path: path}
	for _, line := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		in.lines = append(in.lines, strings.Fields(line))
	}
	return in, nil
}
