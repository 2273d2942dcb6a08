package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/setanarut/monofilter"
)

var solveCmd = &cobra.Command{
	Use:   "solve <hex>...",
	Short: "Solve filter descriptors for one or more colors",
	Long: `Solve filter descriptors for one or more hex colors.

Examples:
  monofilter solve '#ff0db2'
  monofilter solve ff0db2 00aaff --max-loss 25
  monofilter solve '#3c9' --descriptor-only`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

var (
	solveMaxLoss        float64
	solveDescriptorOnly bool
)

func init() {
	solveCmd.Flags().Float64Var(&solveMaxLoss, "max-loss", 0, "Print 'none' for results whose loss exceeds this (0 disables)")
	solveCmd.Flags().BoolVar(&solveDescriptorOnly, "descriptor-only", false, "Print only descriptors, one per line")
}

func runSolve(cmd *cobra.Command, args []string) error {
	cache := monofilter.NewCache(solverOptions(cmd))
	results, err := cache.SolveAll(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if solveDescriptorOnly {
		for _, r := range results {
			fmt.Fprintln(out, descriptorWithFallback(r, solveMaxLoss))
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tACHIEVED\tLOSS\tPRECISION\tFILTER")
	for i, r := range results {
		target, _ := monofilter.NormalizeHex(args[i])
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\t%s\n",
			target, r.Achieved.Hex(), r.Loss, r.Precision, descriptorWithFallback(r, solveMaxLoss))
	}
	return w.Flush()
}

// descriptorWithFallback applies the caller-side quality policy: a result
// worse than maxLoss is replaced by the identity filter.
func descriptorWithFallback(r monofilter.SolverResult, maxLoss float64) string {
	if maxLoss > 0 && r.Loss > maxLoss {
		return "none"
	}
	return r.Descriptor
}
