// cmd/comere/run.go
package comere

import (
	"context"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/martinhath/comere/scheme"
	"github.com/martinhath/comere/sweep"
	"github.com/martinhath/comere/tui"
)

// runCmd represents the 'run' command: a full benchmark sweep.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full benchmark sweep",
	Long: `The 'run' command executes every {scheme × thread count × benchmark}
combination in order, reduces the raw output, merges the per-scheme series
and writes comparison plot scripts into a timestamped output directory.
The sweep aborts on the first failed run; partial artifacts stay on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildSweepConfig()
		if err != nil {
			return err
		}
		if viper.GetBool("show-config") {
			pp.Println(cfg)
		}

		if !viper.GetBool("watch") {
			orch, err := sweep.New(cfg)
			if err != nil {
				return err
			}
			return orch.Run(context.Background())
		}

		// Watch mode: run the sweep in the background and feed its
		// events to the progress UI. Sends never block; a stalled UI
		// drops progress updates rather than stalling the sweep.
		events := make(chan sweep.Event, 64)
		cfg.Events = func(e sweep.Event) {
			select {
			case events <- e:
			default:
			}
		}
		orch, err := sweep.New(cfg)
		if err != nil {
			return err
		}
		errc := make(chan error, 1)
		go func() {
			errc <- orch.Run(context.Background())
			close(events)
		}()
		if err := tui.Run(events); err != nil {
			return err
		}
		return <-errc
	},
}

// buildSweepConfig resolves flags, config file and defaults into one
// explicit sweep configuration.
func buildSweepConfig() (sweep.Config, error) {
	reg := scheme.Default()
	if ids := viper.GetStringSlice("schemes"); len(ids) > 0 {
		sub, err := reg.Subset(ids)
		if err != nil {
			return sweep.Config{}, err
		}
		reg = sub
	}

	kinds := scheme.Kinds()
	if names := viper.GetStringSlice("benches"); len(names) > 0 {
		kinds = kinds[:0]
		for _, n := range names {
			k, err := scheme.ParseKind(n)
			if err != nil {
				return sweep.Config{}, err
			}
			kinds = append(kinds, k)
		}
	}

	return sweep.Config{
		Registry:    reg,
		Threads:     viper.GetIntSlice("threads"),
		Kinds:       kinds,
		BinDir:      viper.GetString("bin-dir"),
		OutputRoot:  viper.GetString("out"),
		Archive:     viper.GetBool("archive"),
		AllowRagged: viper.GetBool("allow-ragged"),
		RenderPlots: viper.GetBool("render"),
		Log:         logger,
	}, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntSlice("threads", []int{1, 2, 4, 8}, "thread counts to sweep")
	runCmd.Flags().StringSlice("schemes", nil, "subset of schemes to run, in order (default: all)")
	runCmd.Flags().StringSlice("benches", nil, "subset of benchmark kinds to run (default: all)")
	runCmd.Flags().String("bin-dir", "bin", "directory holding the {bench}-{scheme} binaries")
	runCmd.Flags().String("out", "results", "output root; each sweep gets a timestamped subdirectory")
	runCmd.Flags().Bool("archive", false, "bundle the output directory into a .tar.gz on success")
	runCmd.Flags().Bool("allow-ragged", false, "clip unequal-length series while merging instead of failing")
	runCmd.Flags().Bool("render", false, "invoke gnuplot on the generated plot scripts")
	runCmd.Flags().Bool("watch", false, "show live progress UI")
	runCmd.Flags().Bool("show-config", false, "dump the resolved sweep configuration")

	for _, name := range []string{
		"threads", "schemes", "benches", "bin-dir", "out",
		"archive", "allow-ragged", "render", "watch", "show-config",
	} {
		viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}

	// Optional sweep.yaml next to the binary or in the working dir.
	viper.SetConfigName("sweep")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()
}
