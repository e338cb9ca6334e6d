// Package executor runs one external benchmark binary per
// (scheme, thread count, kind) combination and parses its output.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/martinhath/comere/scheme"
	"github.com/martinhath/comere/stats"
)

// Params fully identifies one benchmark invocation. Created by the
// orchestrator, consumed exactly once.
type Params struct {
	Scheme  scheme.Scheme
	Threads int
	Kind    scheme.Kind
}

// Binary returns the benchmark binary name for these parameters,
// {kind}-{scheme}, e.g. "queue-push-ebr".
func (p Params) Binary() string {
	return fmt.Sprintf("%s-%s", p.Kind, p.Scheme.ID)
}

func (p Params) String() string {
	return fmt.Sprintf("%s t=%d", p.Binary(), p.Threads)
}

// ExecError reports a benchmark process that could not be spawned or
// exited non-zero. It is fatal to the enclosing sweep.
type ExecError struct {
	Params Params
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("benchmark %s: %v", e.Params, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// Runner locates and spawns benchmark binaries.
type Runner struct {
	// BinDir is the directory holding the {kind}-{scheme} binaries.
	BinDir string
	// OutputFile, when non-empty, is passed as the second positional
	// argument and the binary writes samples there instead of stdout.
	OutputFile string

	Log *zap.Logger
}

// Execute blocks until the benchmark process for p exits and returns
// its parsed summary rows, one per repetition. The scheme's extra
// environment is applied on top of the parent environment, and the
// thread count is the sole positional argument (the output path, if
// configured, follows it). Any failure is terminal for the sweep: a
// spawn error or non-zero exit yields *ExecError, an unparsable line
// *stats.MalformedRecordError.
func (r *Runner) Execute(ctx context.Context, p Params) ([]stats.Row, error) {
	bin := filepath.Join(r.BinDir, p.Binary())
	args := []string{strconv.Itoa(p.Threads)}
	if r.OutputFile != "" {
		args = append(args, r.OutputFile)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = os.Environ()
	for k, v := range p.Scheme.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.Log != nil {
		r.Log.Info("running benchmark",
			zap.String("binary", bin),
			zap.Int("threads", p.Threads),
			zap.String("scheme", p.Scheme.ID))
	}
	if err := cmd.Run(); err != nil {
		return nil, &ExecError{Params: p, Stderr: stderr.String(), Err: err}
	}

	var rows []stats.Row
	sc := bufio.NewScanner(&stdout)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := stats.Reduce(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, &ExecError{Params: p, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ExecError{Params: p, Err: fmt.Errorf("produced no records")}
	}
	return rows, nil
}
