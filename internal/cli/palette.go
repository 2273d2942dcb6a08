package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/setanarut/monofilter"
	"github.com/setanarut/monofilter/utils"
)

var paletteCmd = &cobra.Command{
	Use:   "palette <image>",
	Short: "Extract accent colors from an image and solve each",
	Args:  cobra.ExactArgs(1),
	RunE:  runPalette,
}

var (
	paletteCount    int
	paletteMethod   string
	paletteSwatches string
)

func init() {
	paletteCmd.Flags().IntVarP(&paletteCount, "count", "k", 5, "Number of accent colors")
	paletteCmd.Flags().StringVar(&paletteMethod, "method", "dominantcolor", "Extraction method: dominantcolor or kmeans")
	paletteCmd.Flags().StringVar(&paletteSwatches, "swatches", "", "Write target/achieved swatches to this PNG")
}

func runPalette(cmd *cobra.Command, args []string) error {
	method, ok := utils.ParsePaletteMethod(paletteMethod)
	if !ok {
		return fmt.Errorf("unknown palette method %q", paletteMethod)
	}
	img, err := utils.ReadImage(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	palette := utils.ExtractPalette(img, paletteCount, method)
	utils.SortPaletteByBrightness(palette)
	targets := utils.AccentColors(palette)
	hexes := make([]string, len(targets))
	for i, t := range targets {
		hexes[i] = t.Hex()
	}

	cache := monofilter.NewCache(solverOptions(cmd))
	results, err := cache.SolveAll(cmd.Context(), hexes)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCENT\tACHIEVED\tLOSS\tFILTER")
	achieved := make([]monofilter.RGBColor, len(results))
	for i, r := range results {
		achieved[i] = r.Achieved
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n", hexes[i], r.Achieved.Hex(), r.Loss, r.Descriptor)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if paletteSwatches != "" {
		if err := utils.SaveSwatches(targets, achieved, 64, paletteSwatches); err != nil {
			return fmt.Errorf("failed to save swatches: %w", err)
		}
	}
	return nil
}
