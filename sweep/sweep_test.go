package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinhath/comere/executor"
	"github.com/martinhath/comere/merge"
	"github.com/martinhath/comere/scheme"
)

// stubBinaries writes one shell-script benchmark stub per
// (scheme, kind), each printing two well-formed records whose averages
// encode the scheme so merged output is recognizable.
func stubBinaries(t *testing.T, dir string, schemes []scheme.Scheme, kinds []scheme.Kind, avg map[string]int) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	for _, s := range schemes {
		for _, k := range kinds {
			if !s.Supports(k) {
				continue
			}
			base := avg[s.ID]
			script := fmt.Sprintf("#!/bin/sh\nprintf '%s;%d;1;1;1;0;0\\n%s;%d;1;1;1;0;0\\n'\n",
				k, base, k, base+1)
			path := filepath.Join(dir, fmt.Sprintf("%s-%s", k, s.ID))
			require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
		}
	}
}

func twoSchemes(t *testing.T) scheme.Registry {
	t.Helper()
	reg, err := scheme.NewRegistry(
		scheme.Scheme{ID: "a", Legend: "A"},
		scheme.Scheme{ID: "b", Legend: "B"},
	)
	require.NoError(t, err)
	return reg
}

func TestSweepVisitsCrossProductInOrder(t *testing.T) {
	bins := t.TempDir()
	reg := twoSchemes(t)
	kinds := []scheme.Kind{scheme.QueuePush}
	stubBinaries(t, bins, reg.All(), kinds, map[string]int{"a": 100, "b": 200})

	var trace []string
	cfg := Config{
		Registry: reg,
		Threads:  []int{1, 2},
		Kinds:    kinds,
		BinDir:   bins,
		Dir:      filepath.Join(t.TempDir(), "out"),
		Events: func(e Event) {
			switch e.Kind {
			case RunStarted:
				trace = append(trace, fmt.Sprintf("run %s t=%d", e.Params.Scheme.ID, e.Params.Threads))
			case Merged:
				trace = append(trace, fmt.Sprintf("merge t=%d", e.Threads))
			case Plotted:
				trace = append(trace, fmt.Sprintf("plot t=%d", e.Threads))
			case SweepDone:
				trace = append(trace, "done")
			}
		},
	}
	orch, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, Idle, orch.State())
	require.Equal(t, 4, orch.Total())

	require.NoError(t, orch.Run(context.Background()))
	assert.Equal(t, Done, orch.State())
	assert.Equal(t, []string{
		"run a t=1", "run b t=1", "merge t=1", "plot t=1",
		"run a t=2", "run b t=2", "merge t=2", "plot t=2",
		"done",
	}, trace)
}

func TestSweepArtifacts(t *testing.T) {
	bins := t.TempDir()
	reg := twoSchemes(t)
	kinds := []scheme.Kind{scheme.QueuePush}
	stubBinaries(t, bins, reg.All(), kinds, map[string]int{"a": 100, "b": 200})

	out := filepath.Join(t.TempDir(), "out")
	orch, err := New(Config{
		Registry: reg,
		Threads:  []int{4},
		Kinds:    kinds,
		BinDir:   bins,
		Dir:      out,
	})
	require.NoError(t, err)
	require.NoError(t, orch.Run(context.Background()))
	assert.Equal(t, out, orch.Dir())

	// Raw samples: one average per line, per (scheme, kind, threads).
	b, err := os.ReadFile(filepath.Join(out, "s-a_b-queue-push_t-04.dat"))
	require.NoError(t, err)
	assert.Equal(t, "100\n101\n", string(b))

	// Merged: one value per scheme per line, registry order.
	b, err = os.ReadFile(filepath.Join(out, "merged_b-queue-push_t-04-col-1"))
	require.NoError(t, err)
	assert.Equal(t, "100 200\n101 201\n", string(b))

	// Summary tables per scheme.
	b, err = os.ReadFile(filepath.Join(out, "summary_s-b_t-04.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "NAME")
	assert.Contains(t, string(b), "200")

	// Plot scripts for both variants, legends in registry order.
	b, err = os.ReadFile(filepath.Join(out, "queue-push_t-04_box.gp"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "set xtics ('A' 1, 'B' 2)")
	b, err = os.ReadFile(filepath.Join(out, "queue-push_t-04_line.gp"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "smooth bezier")
	assert.Contains(t, string(b), "'queue-push, 4 threads'")
}

func TestSweepAbortsOnFirstFailure(t *testing.T) {
	bins := t.TempDir()
	reg := twoSchemes(t)
	kinds := []scheme.Kind{scheme.QueuePush}
	stubBinaries(t, bins, reg.All()[:1], kinds, map[string]int{"a": 100})
	// Scheme b fails immediately.
	require.NoError(t, os.WriteFile(filepath.Join(bins, "queue-push-b"),
		[]byte("#!/bin/sh\nexit 1\n"), 0o755))

	out := filepath.Join(t.TempDir(), "out")
	var aborted bool
	orch, err := New(Config{
		Registry: reg,
		Threads:  []int{1, 2},
		Kinds:    kinds,
		BinDir:   bins,
		Dir:      out,
		Events: func(e Event) {
			if e.Kind == SweepAborted {
				aborted = true
			}
		},
	})
	require.NoError(t, err)

	err = orch.Run(context.Background())
	var ee *executor.ExecError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, Aborted, orch.State())
	assert.True(t, aborted)

	// Exactly the first run's artifact exists; nothing was merged or
	// plotted for any thread count.
	_, err = os.Stat(filepath.Join(out, "s-a_b-queue-push_t-01.dat"))
	assert.NoError(t, err)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "merged_"), "unexpected %s", e.Name())
		assert.False(t, strings.HasSuffix(e.Name(), ".gp"), "unexpected %s", e.Name())
		assert.False(t, strings.Contains(e.Name(), "t-02"), "unexpected %s", e.Name())
	}
}

func TestSweepSkipsUnsupportedKinds(t *testing.T) {
	bins := t.TempDir()
	reg, err := scheme.NewRegistry(
		scheme.Scheme{ID: "x", Legend: "X"},
		scheme.Scheme{ID: "y", Legend: "Y", NoList: true},
	)
	require.NoError(t, err)
	kinds := []scheme.Kind{scheme.QueuePush, scheme.ListRemove}
	stubBinaries(t, bins, reg.All(), kinds, map[string]int{"x": 10, "y": 20})

	out := filepath.Join(t.TempDir(), "out")
	orch, err := New(Config{
		Registry: reg,
		Threads:  []int{1},
		Kinds:    kinds,
		BinDir:   bins,
		Dir:      out,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, orch.Total())
	require.NoError(t, orch.Run(context.Background()))

	// list-remove merged output has a single column (only scheme x).
	b, err := os.ReadFile(filepath.Join(out, "merged_b-list-remove_t-01-col-1"))
	require.NoError(t, err)
	assert.Equal(t, "10\n11\n", string(b))

	// The box plot for list-remove carries only X's label.
	gp, err := os.ReadFile(filepath.Join(out, "list-remove_t-01_box.gp"))
	require.NoError(t, err)
	assert.Contains(t, string(gp), "set xtics ('X' 1)")
	assert.NotContains(t, string(gp), "'Y'")
}

func TestSweepRaggedSeries(t *testing.T) {
	bins := t.TempDir()
	reg := twoSchemes(t)
	kinds := []scheme.Kind{scheme.QueuePush}
	// a emits two repetitions, b only one.
	require.NoError(t, os.WriteFile(filepath.Join(bins, "queue-push-a"),
		[]byte("#!/bin/sh\nprintf 'p;1;1;1;1;0;0\\np;2;1;1;1;0;0\\n'\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bins, "queue-push-b"),
		[]byte("#!/bin/sh\nprintf 'p;3;1;1;1;0;0\\n'\n"), 0o755))

	strictDir := filepath.Join(t.TempDir(), "strict")
	orch, err := New(Config{
		Registry: reg, Threads: []int{1}, Kinds: kinds, BinDir: bins, Dir: strictDir,
	})
	require.NoError(t, err)
	err = orch.Run(context.Background())
	var mis *merge.MisalignedSeriesError
	require.True(t, errors.As(err, &mis))
	assert.Equal(t, Aborted, orch.State())

	raggedDir := filepath.Join(t.TempDir(), "ragged")
	orch, err = New(Config{
		Registry: reg, Threads: []int{1}, Kinds: kinds, BinDir: bins, Dir: raggedDir,
		AllowRagged: true,
	})
	require.NoError(t, err)
	require.NoError(t, orch.Run(context.Background()))
	b, err := os.ReadFile(filepath.Join(raggedDir, "merged_b-queue-push_t-01-col-1"))
	require.NoError(t, err)
	assert.Equal(t, "1 3\n", string(b))
}

func TestSweepIsSingleUse(t *testing.T) {
	bins := t.TempDir()
	reg := twoSchemes(t)
	stubBinaries(t, bins, reg.All(), []scheme.Kind{scheme.QueuePush}, map[string]int{"a": 1, "b": 2})

	orch, err := New(Config{
		Registry: reg, Threads: []int{1}, Kinds: []scheme.Kind{scheme.QueuePush},
		BinDir: bins, Dir: filepath.Join(t.TempDir(), "out"),
	})
	require.NoError(t, err)
	require.NoError(t, orch.Run(context.Background()))
	assert.Error(t, orch.Run(context.Background()))
}

func TestConfigValidation(t *testing.T) {
	reg := twoSchemes(t)
	base := Config{
		Registry: reg, Threads: []int{1}, Kinds: []scheme.Kind{scheme.QueuePush},
		BinDir: "bin", OutputRoot: "results",
	}

	_, err := New(base)
	assert.NoError(t, err)

	broken := base
	broken.Threads = nil
	_, err = New(broken)
	assert.Error(t, err)

	broken = base
	broken.Kinds = nil
	_, err = New(broken)
	assert.Error(t, err)

	broken = base
	broken.BinDir = ""
	_, err = New(broken)
	assert.Error(t, err)

	broken = base
	broken.Registry = scheme.Registry{}
	_, err = New(broken)
	assert.Error(t, err)
}
