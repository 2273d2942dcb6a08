package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setanarut/monofilter"
	"github.com/setanarut/monofilter/utils"
)

var recolorCmd = &cobra.Command{
	Use:   "recolor <asset> <hex|descriptor>",
	Short: "Render a monochrome asset through a filter chain",
	Long: `Render a monochrome asset through a filter chain and save it as PNG.

The second argument is either a hex color, which is solved first, or a
descriptor as printed by 'monofilter solve'.

Examples:
  monofilter recolor knob.png '#ff0db2' -o knob-pink.png
  monofilter recolor knob.png 'invert(50%) sepia(0%) saturate(100%) hue-rotate(0deg) brightness(100%) contrast(100%)'`,
	Args: cobra.ExactArgs(2),
	RunE: runRecolor,
}

var recolorOutput string

func init() {
	recolorCmd.Flags().StringVarP(&recolorOutput, "output", "o", "recolored.png", "Output PNG path")
}

func runRecolor(cmd *cobra.Command, args []string) error {
	params, err := resolveFilter(cmd, args[1])
	if err != nil {
		return err
	}
	img, err := utils.ReadImage(args[0])
	if err != nil {
		return fmt.Errorf("failed to read asset: %w", err)
	}
	if err := utils.SaveImage(utils.Recolor(img, params), recolorOutput); err != nil {
		return fmt.Errorf("failed to save %s: %w", recolorOutput, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", recolorOutput, params.Descriptor(monofilter.PrecisionFine))
	return nil
}

// resolveFilter reads arg as a descriptor when it looks like one, otherwise
// solves it as a color.
func resolveFilter(cmd *cobra.Command, arg string) (monofilter.FilterParameters, error) {
	if arg == "none" || strings.Contains(arg, "(") {
		return monofilter.ParseDescriptor(arg)
	}
	r, err := monofilter.SolveHex(arg, solverOptions(cmd))
	if err != nil {
		return monofilter.FilterParameters{}, err
	}
	return r.Params, nil
}
