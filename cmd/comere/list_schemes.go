// cmd/comere/list_schemes.go
package comere

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martinhath/comere/scheme"
)

// listSchemesCmd represents the 'list schemes' command.
var listSchemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the registered reclamation schemes",
	Long: `The 'list schemes' command prints every registered reclamation scheme
in sweep order, with its legend label, extra environment and which
benchmark kinds it supports.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(formatSchemes(scheme.Default()))
	},
}

func formatSchemes(reg scheme.Registry) string {
	var b strings.Builder
	for i, s := range reg.All() {
		var kinds []string
		for _, k := range scheme.Kinds() {
			if s.Supports(k) {
				kinds = append(kinds, string(k))
			}
		}
		env := "-"
		if len(s.Env) > 0 {
			pairs := make([]string, 0, len(s.Env))
			for k, v := range s.Env {
				pairs = append(pairs, k+"="+v)
			}
			sort.Strings(pairs)
			env = strings.Join(pairs, " ")
		}
		fmt.Fprintf(&b, "%d. %-10s %-12s env: %-20s benches: %s\n",
			i+1, s.ID, s.Legend, env, strings.Join(kinds, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func init() {
	listCmd.AddCommand(listSchemesCmd)
}
