// cmd/comere/merge.go
package comere

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martinhath/comere/merge"
)

var (
	mergeOut         string
	mergePrefix      string
	mergeAllowRagged bool
)

// mergeCmd represents the 'merge' command: a standalone column merge of
// already-collected data files.
var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge per-scheme data files into per-column files",
	Long: `The 'merge' command takes N column-aligned data files and writes, for
each column position, one output file holding that column from every
input side by side. Input order becomes column order in the output, so
pass the files in scheme order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outs, err := merge.Columns(args, mergeOut, mergePrefix, merge.Options{
			AllowRagged: mergeAllowRagged,
			Log:         logger,
		})
		if err != nil {
			return err
		}
		for _, o := range outs {
			fmt.Println(o)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", ".", "output directory")
	mergeCmd.Flags().StringVarP(&mergePrefix, "prefix", "p", "merged", "output file name prefix")
	mergeCmd.Flags().BoolVar(&mergeAllowRagged, "allow-ragged", false, "clip unequal-length inputs instead of failing")
}
