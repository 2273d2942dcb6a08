package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/monofilter"
)

var rootCmd = &cobra.Command{
	Use:   "monofilter",
	Short: "Solve filter chains that tint black assets into accent colors",
	Long: `monofilter finds invert/sepia/saturate/hue-rotate/brightness/contrast
parameters which, applied in that order to a pure black image, reproduce a
target color.

Solve once per accent color, keep the descriptor, and apply it to static
monochrome assets at render time.`,
	SilenceUsage: true,
}

// Flags shared by every solving command.
var (
	flagSeed       uint64
	flagSamples    int
	flagIterations int
	flagRounds     int
	flagVerbose    bool
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	def := monofilter.DefaultOptions()
	pf := rootCmd.PersistentFlags()
	pf.Uint64Var(&flagSeed, "seed", def.Seed, "Search seed")
	pf.IntVar(&flagSamples, "samples", def.Samples, "Wide search samples")
	pf.IntVar(&flagIterations, "iterations", def.Iterations, "Annealing iterations per round")
	pf.IntVar(&flagRounds, "rounds", def.Rounds, "Annealing rounds")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log search progress to stderr")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(recolorCmd)
}

// solverOptions builds solver options from the persistent flags.
func solverOptions(cmd *cobra.Command) monofilter.Options {
	opt := monofilter.DefaultOptions()
	opt.Seed = flagSeed
	opt.Samples = flagSamples
	opt.Iterations = flagIterations
	opt.Rounds = flagRounds
	if flagVerbose {
		opt.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return opt
}
