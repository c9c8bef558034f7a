package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ngkeys-go/packages/keys/src/manifest"
)

var strictFlag bool

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Report the keys missing from the translation files",
	Long: `Find scans the templates like extract but only reports the keys that
the translation files lack. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx, cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		defer p.close()

		result, err := p.extract(ctx)
		if err != nil {
			return err
		}
		missing, err := manifest.Find(result.Keys, manifestOptions(cfg, p))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range missing {
			if m.Suggestion != "" {
				fmt.Fprintf(out, "%s: missing %q (did you mean %q?)\n", m.Path, m.Key, m.Suggestion)
				continue
			}
			fmt.Fprintf(out, "%s: missing %q\n", m.Path, m.Key)
		}
		fmt.Fprintf(out, "%d missing translations\n", len(missing))

		if strictFlag && len(missing) > 0 {
			return fmt.Errorf("%d translations are missing", len(missing))
		}
		return nil
	},
}

func init() {
	findCmd.Flags().BoolVar(&strictFlag, "strict", false, "exit with an error when translations are missing")
	rootCmd.AddCommand(findCmd)
}
