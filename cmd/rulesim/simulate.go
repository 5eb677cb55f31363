package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play a seeded game between the configured decks",
	Long: `simulate builds a game from simulation.players, plays it with a fixed
policy (first land, first castable spell, attack with everything) and
prints the result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("turns") {
			cfg.Simulation.Turns, _ = cmd.Flags().GetInt("turns")
		}
		if cmd.Flags().Changed("seed") {
			cfg.Simulation.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		showDigest, _ := cmd.Flags().GetBool("digest")
		recordPath, _ := cmd.Flags().GetString("record")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, rec, err := simulate(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "turn %d\n", res.Turn)
		names := make([]string, 0, len(res.Life))
		for name := range res.Life {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s: %d life\n", name, res.Life[name])
		}
		if res.Winner != "" {
			fmt.Fprintf(out, "winner: %s\n", res.Winner)
		}
		if showDigest {
			fmt.Fprintf(out, "digest: %s\n", res.Digest)
		}

		if recordPath != "" {
			if err := rec.SaveFile(recordPath); err != nil {
				return err
			}
			logger.Info("recording saved",
				zap.String("path", recordPath),
				zap.Int("steps", len(rec.Snapshots)))
		}
		return nil
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <recording>",
	Short: "Rerun a recorded simulation and check it plays out the same",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		want, err := sim.LoadRecordingFile(args[0])
		if err != nil {
			return err
		}
		cfg.Simulation.Seed = want.Seed
		cfg.Simulation.Turns = want.Turns

		_, got, err := simulate(cmd.Context())
		if err != nil {
			return err
		}
		if err := want.Compare(got); err != nil {
			return fmt.Errorf("replay of %s diverged: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "replay matches: %d steps\n", len(want.Snapshots))
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("turns", 0, "number of turns to play (overrides simulation.turns)")
	simulateCmd.Flags().Uint64("seed", 0, "shuffle seed (overrides simulation.seed)")
	simulateCmd.Flags().Bool("digest", false, "print the final state digest")
	simulateCmd.Flags().String("record", "", "write the per-step digests to this file")

	rootCmd.AddCommand(simulateCmd, replayCmd)
}

func simulate(ctx context.Context) (*sim.Result, *sim.Recording, error) {
	lib, err := loadLibrary(ctx)
	if err != nil {
		return nil, nil, err
	}
	e, err := sim.NewEngine(cfg, lib, logger)
	if err != nil {
		return nil, nil, err
	}
	runner := sim.NewRunner(e, nil, logger)
	res, err := runner.Run(ctx, cfg.Simulation.Turns)
	if err != nil {
		return nil, nil, err
	}
	return res, runner.Recording(), nil
}
