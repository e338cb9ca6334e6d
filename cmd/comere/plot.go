// cmd/comere/plot.go
package comere

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martinhath/comere/plot"
)

var (
	plotCols   int
	plotLegend []string
	plotTitle  string
	plotOutput string
	plotStyle  string
	plotScript string
	plotRender bool
)

// plotCmd represents the 'plot' command: render one merged data file as
// a line or box comparison plot.
var plotCmd = &cobra.Command{
	Use:   "plot [data-file]",
	Short: "Render a merged data file as a comparison plot",
	Long: `The 'plot' command generates a gnuplot script for a merged column file
and optionally renders it. The declared column count must match the data
file exactly; a mismatch is a hard error, never a truncation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var style plot.Style
		switch plotStyle {
		case "line":
			style = plot.Line
		case "box":
			style = plot.Box
		default:
			return fmt.Errorf("unknown style %q (want line or box)", plotStyle)
		}

		spec := plot.Spec{
			Data:   args[0],
			Cols:   plotCols,
			Legend: plotLegend,
			Title:  plotTitle,
			Output: plotOutput,
		}
		script := plotScript
		if script == "" {
			script = strings.TrimSuffix(plotOutput, ".png") + ".gp"
		}
		if plotRender {
			return plot.Render(context.Background(), spec, style, script)
		}
		text, err := plot.Script(spec, style)
		if err != nil {
			return err
		}
		return os.WriteFile(script, []byte(text), 0o644)
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().IntVar(&plotCols, "cols", 0, "number of data columns (must match the file)")
	plotCmd.Flags().StringSliceVar(&plotLegend, "legend", nil, "series labels, one per column, in column order")
	plotCmd.Flags().StringVar(&plotTitle, "title", "", "plot title")
	plotCmd.Flags().StringVar(&plotOutput, "output", "plot.png", "rendered image path")
	plotCmd.Flags().StringVar(&plotStyle, "style", "box", "plot style: line or box")
	plotCmd.Flags().StringVar(&plotScript, "script", "", "script path (default: output with .gp extension)")
	plotCmd.Flags().BoolVar(&plotRender, "render", false, "invoke gnuplot after writing the script")

	_ = plotCmd.MarkFlagRequired("cols")
	_ = plotCmd.MarkFlagRequired("legend")
}
