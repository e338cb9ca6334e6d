// Package plot turns merged column files into gnuplot comparison
// plots. Script generation is a pure function of the plot spec; only
// the final rasterization shells out to gnuplot.
package plot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Spec carries the four free variables of the renderer script plus the
// series legend. Legend order must match data column order.
type Spec struct {
	Data   string   // merged data file, one space-separated row per repetition
	Cols   int      // number of data columns in Data
	Legend []string // one label per column, in column order
	Title  string
	Output string // rendered image path
}

// Style selects the comparison plot variant.
type Style int

const (
	// Line draws one bezier-smoothed series per column.
	Line Style = iota
	// Box draws one box-and-whisker per column with the legend as
	// x-axis category labels.
	Box
)

// ColumnCountMismatchError reports a declared column count that
// disagrees with the data file or the legend.
type ColumnCountMismatchError struct {
	Data     string
	Declared int
	Actual   int
	Detail   string
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("plot %s: declared %d columns, %s has %d",
		e.Data, e.Declared, e.Detail, e.Actual)
}

// Validate checks that every line of the data file and the legend both
// match the declared column count. There is no truncation path: a
// mismatch always fails.
func (s Spec) Validate() error {
	if len(s.Legend) != s.Cols {
		return &ColumnCountMismatchError{
			Data: s.Data, Declared: s.Cols, Actual: len(s.Legend), Detail: "legend",
		}
	}
	b, err := os.ReadFile(s.Data)
	if err != nil {
		return fmt.Errorf("plot: read %s: %w", s.Data, err)
	}
	for i, line := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := len(strings.Fields(line)); n != s.Cols {
			return &ColumnCountMismatchError{
				Data: s.Data, Declared: s.Cols, Actual: n,
				Detail: fmt.Sprintf("data line %d", i+1),
			}
		}
	}
	return nil
}

// Script generates the gnuplot script for the spec. The output is
// deterministic: the same spec always produces byte-identical text.
func Script(s Spec, style Style) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "set terminal pngcairo size 1000,600\n")
	fmt.Fprintf(&b, "set output %s\n", quote(s.Output))
	fmt.Fprintf(&b, "set title %s\n", quote(s.Title))
	fmt.Fprintf(&b, "set ylabel \"ns/iter\"\n")

	switch style {
	case Line:
		fmt.Fprintf(&b, "set xlabel \"repetition\"\n")
		fmt.Fprintf(&b, "set key left top\n")
		parts := make([]string, s.Cols)
		for c := 0; c < s.Cols; c++ {
			parts[c] = fmt.Sprintf("%s using 0:%d smooth bezier with lines title %s",
				quote(s.Data), c+1, quote(s.Legend[c]))
		}
		fmt.Fprintf(&b, "plot %s\n", strings.Join(parts, ", \\\n     "))
	case Box:
		fmt.Fprintf(&b, "set style data boxplot\n")
		fmt.Fprintf(&b, "set style boxplot outliers pointtype 7\n")
		fmt.Fprintf(&b, "set style fill solid 0.5 border -1\n")
		tics := make([]string, s.Cols)
		for c := 0; c < s.Cols; c++ {
			tics[c] = fmt.Sprintf("%s %d", quote(s.Legend[c]), c+1)
		}
		fmt.Fprintf(&b, "set xtics (%s)\n", strings.Join(tics, ", "))
		parts := make([]string, s.Cols)
		for c := 0; c < s.Cols; c++ {
			parts[c] = fmt.Sprintf("%s using (%d):%d notitle", quote(s.Data), c+1, c+1)
		}
		fmt.Fprintf(&b, "plot %s\n", strings.Join(parts, ", \\\n     "))
	default:
		return "", fmt.Errorf("plot: unknown style %d", style)
	}
	return b.String(), nil
}

// Render writes the script to scriptPath and runs gnuplot on it,
// producing s.Output.
func Render(ctx context.Context, s Spec, style Style, scriptPath string) error {
	script, err := Script(s, style)
	if err != nil {
		return err
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("plot: write %s: %w", scriptPath, err)
	}
	cmd := exec.CommandContext(ctx, "gnuplot", scriptPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("plot: gnuplot %s: %w: %s", scriptPath, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
