// Package sweep drives the full cross product of
// {reclamation scheme × thread count × benchmark kind} through the
// executor, merger and plot renderer in a fixed, reproducible order.
// A sweep is sequential on purpose: the benchmarks contend for cores,
// so running two at once would corrupt the timings.
package sweep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/martinhath/comere/executor"
	"github.com/martinhath/comere/merge"
	"github.com/martinhath/comere/plot"
	"github.com/martinhath/comere/scheme"
	"github.com/martinhath/comere/stats"
)

// Config is the complete, explicit input of one sweep. Nothing is read
// from ambient environment or build state.
type Config struct {
	Registry scheme.Registry
	Threads  []int
	Kinds    []scheme.Kind

	// BinDir holds the {kind}-{scheme} benchmark binaries.
	BinDir string
	// OutputRoot receives one timestamped directory per sweep.
	OutputRoot string
	// Dir, when set, overrides the timestamped directory name.
	Dir string

	// Archive bundles the output directory into a .tar.gz after a
	// successful sweep.
	Archive bool
	// AllowRagged clips unequal-length series during merging instead
	// of failing.
	AllowRagged bool
	// RenderPlots additionally runs gnuplot on the generated scripts.
	// The scripts themselves are always written.
	RenderPlots bool

	Log    *zap.Logger
	Events func(Event)
}

func (c *Config) validate() error {
	if c.Registry.Len() == 0 {
		return fmt.Errorf("sweep: at least one scheme is required")
	}
	if len(c.Threads) == 0 {
		return fmt.Errorf("sweep: at least one thread count is required")
	}
	if len(c.Kinds) == 0 {
		return fmt.Errorf("sweep: at least one benchmark kind is required")
	}
	if c.BinDir == "" {
		return fmt.Errorf("sweep: BinDir is required")
	}
	if c.OutputRoot == "" && c.Dir == "" {
		return fmt.Errorf("sweep: OutputRoot is required")
	}
	return nil
}

// State is the orchestrator's lifecycle position. Done and Aborted are
// terminal.
type State int

const (
	Idle State = iota
	Running
	Merging
	Plotting
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Merging:
		return "merging"
	case Plotting:
		return "plotting"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Orchestrator executes one sweep. It is single-use: construct, Run,
// inspect.
type Orchestrator struct {
	cfg    Config
	runner *executor.Runner
	state  State
	dir    string

	completed int
	total     int
}

// New validates cfg and prepares an orchestrator in the Idle state.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	o := &Orchestrator{
		cfg:    cfg,
		runner: &executor.Runner{BinDir: cfg.BinDir, Log: cfg.Log},
		state:  Idle,
	}
	for _, k := range cfg.Kinds {
		o.total += len(cfg.Registry.For(k))
	}
	o.total *= len(cfg.Threads)
	return o, nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Dir returns the sweep's output directory, available after Run starts.
func (o *Orchestrator) Dir() string { return o.dir }

// Total returns the number of executor runs the sweep will perform.
func (o *Orchestrator) Total() int { return o.total }

func (o *Orchestrator) emit(e Event) {
	e.Completed = o.completed
	e.Total = o.total
	if o.cfg.Events != nil {
		o.cfg.Events(e)
	}
}

// Run executes the sweep: for every thread count (outer), every scheme
// (registry order), every supported kind (declared order), one blocking
// executor call; then merge and plot for that thread count before the
// next one. The first executor or reducer failure aborts the whole
// sweep; artifacts already written stay on disk.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.state != Idle {
		return fmt.Errorf("sweep: orchestrator already ran (state %s)", o.state)
	}

	o.dir = o.cfg.Dir
	if o.dir == "" {
		o.dir = filepath.Join(o.cfg.OutputRoot, time.Now().Format("20060102-150405"))
	}
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return o.abort(fmt.Errorf("sweep: create output dir: %w", err))
	}
	o.cfg.Log.Info("sweep started",
		zap.String("dir", o.dir),
		zap.Ints("threads", o.cfg.Threads),
		zap.Int("runs", o.total))

	for _, tc := range o.cfg.Threads {
		if err := o.runAll(ctx, tc); err != nil {
			return o.abort(err)
		}
		o.state = Merging
		mergedByKind, err := o.mergeAll(tc)
		if err != nil {
			return o.abort(err)
		}
		o.emit(Event{Kind: Merged, Threads: tc})

		o.state = Plotting
		if err := o.plotAll(ctx, tc, mergedByKind); err != nil {
			return o.abort(err)
		}
		o.emit(Event{Kind: Plotted, Threads: tc})
	}

	if o.cfg.Archive {
		bundle, err := Bundle(o.dir)
		if err != nil {
			return o.abort(err)
		}
		o.cfg.Log.Info("sweep archived", zap.String("bundle", bundle))
	}

	o.state = Done
	o.emit(Event{Kind: SweepDone})
	o.cfg.Log.Info("sweep done", zap.String("dir", o.dir))
	return nil
}

func (o *Orchestrator) abort(err error) error {
	o.state = Aborted
	o.emit(Event{Kind: SweepAborted, Err: err})
	o.cfg.Log.Error("sweep aborted", zap.Error(err))
	return err
}

// runAll performs every (scheme, kind) run for one thread count and
// writes the raw sample file per run plus one summary table per scheme.
func (o *Orchestrator) runAll(ctx context.Context, tc int) error {
	o.state = Running
	for _, s := range o.cfg.Registry.All() {
		var summary []stats.Row
		for _, k := range o.cfg.Kinds {
			if !s.Supports(k) {
				continue
			}
			p := executor.Params{Scheme: s, Threads: tc, Kind: k}
			o.emit(Event{Kind: RunStarted, Params: p})
			rows, err := o.runner.Execute(ctx, p)
			if err != nil {
				return err
			}
			if err := writeSamples(o.sampleFile(s, k, tc), rows); err != nil {
				return err
			}
			summary = append(summary, rows...)
			o.completed++
			o.emit(Event{Kind: RunFinished, Params: p})
		}
		if len(summary) > 0 {
			path := filepath.Join(o.dir, fmt.Sprintf("summary_s-%s_t-%02d.txt", s.ID, tc))
			if err := os.WriteFile(path, []byte(stats.Table(summary)), 0o644); err != nil {
				return fmt.Errorf("sweep: write %s: %w", path, err)
			}
		}
	}
	return nil
}

// mergeAll reshapes the per-scheme sample files of one thread count
// into one merged file per kind, columns in registry order.
func (o *Orchestrator) mergeAll(tc int) (map[scheme.Kind]string, error) {
	out := make(map[scheme.Kind]string, len(o.cfg.Kinds))
	for _, k := range o.cfg.Kinds {
		schemes := o.cfg.Registry.For(k)
		inputs := make([]string, len(schemes))
		for i, s := range schemes {
			inputs[i] = o.sampleFile(s, k, tc)
		}
		prefix := fmt.Sprintf("merged_b-%s_t-%02d", k, tc)
		paths, err := merge.Columns(inputs, o.dir, prefix, merge.Options{
			AllowRagged: o.cfg.AllowRagged,
			Log:         o.cfg.Log,
		})
		if err != nil {
			return nil, err
		}
		// Sample files have a single column, so exactly one merged
		// file comes back per kind.
		out[k] = paths[0]
	}
	return out, nil
}

// plotAll writes line and box plot scripts (and optionally renders
// them) for every kind at one thread count.
func (o *Orchestrator) plotAll(ctx context.Context, tc int, merged map[scheme.Kind]string) error {
	for _, k := range o.cfg.Kinds {
		schemes := o.cfg.Registry.For(k)
		for _, v := range []struct {
			style  plot.Style
			suffix string
		}{
			{plot.Line, "line"},
			{plot.Box, "box"},
		} {
			base := fmt.Sprintf("%s_t-%02d_%s", k, tc, v.suffix)
			spec := plot.Spec{
				Data:   merged[k],
				Cols:   len(schemes),
				Legend: o.cfg.Registry.Legends(k),
				Title:  fmt.Sprintf("%s, %d threads", k, tc),
				Output: filepath.Join(o.dir, base+".png"),
			}
			scriptPath := filepath.Join(o.dir, base+".gp")
			if o.cfg.RenderPlots {
				if err := plot.Render(ctx, spec, v.style, scriptPath); err != nil {
					return err
				}
				continue
			}
			script, err := plot.Script(spec, v.style)
			if err != nil {
				return err
			}
			if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
				return fmt.Errorf("sweep: write %s: %w", scriptPath, err)
			}
		}
	}
	return nil
}

func (o *Orchestrator) sampleFile(s scheme.Scheme, k scheme.Kind, tc int) string {
	return filepath.Join(o.dir, fmt.Sprintf("s-%s_b-%s_t-%02d.dat", s.ID, k, tc))
}

// writeSamples stores one average per line, one line per repetition.
func writeSamples(path string, rows []stats.Row) error {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strconv.FormatFloat(r.Avg, 'g', -1, 64))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("sweep: write %s: %w", path, err)
	}
	return nil
}
