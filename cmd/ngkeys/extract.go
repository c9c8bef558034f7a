package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ngkeys-go/packages/keys/src/config"
	"ngkeys-go/packages/keys/src/manifest"
)

var (
	inputFlag  []string
	outputFlag string
	langsFlag  []string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the keys found in templates into the translation files",
	Long: `Extract scans the configured inputs for templates, collects their
translation keys and merges them into the translation files. Existing
translations are kept; new keys get the configured default value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runExtract(ctx, cmd.OutOrStdout(), cfg)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{extractCmd, findCmd, watchCmd} {
		cmd.Flags().StringSliceVarP(&inputFlag, "input", "i", nil, "template directories or files (overrides config)")
		cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "translation directory (overrides config)")
		cmd.Flags().StringSliceVarP(&langsFlag, "langs", "l", nil, "languages (overrides config)")
	}
	rootCmd.AddCommand(extractCmd)
}

// commandConfig loads the configuration and applies the command flags
func commandConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if len(inputFlag) > 0 {
		cfg.Input = inputFlag
	}
	if outputFlag != "" {
		cfg.Output = outputFlag
	}
	if len(langsFlag) > 0 {
		cfg.Langs = langsFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func manifestOptions(cfg *config.Config, p *pipeline) manifest.Options {
	return manifest.Options{
		Output:  cfg.Output,
		Langs:   cfg.Langs,
		Sort:    cfg.Sort,
		Unflat:  cfg.Unflat,
		Replace: cfg.Replace,
		Logger:  p.logger,
	}
}

func runExtract(ctx context.Context, out io.Writer, cfg *config.Config) error {
	p, err := newPipeline(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer p.close()
	return p.extractAndWrite(ctx, out)
}

func (p *pipeline) extractAndWrite(ctx context.Context, out io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	result, err := p.extract(ctx)
	if err != nil {
		return err
	}
	changes, err := manifest.Write(result.Keys, manifestOptions(p.cfg, p))
	if err != nil {
		return err
	}

	added := 0
	for _, change := range changes {
		added += len(change.Added)
		fmt.Fprintf(out, "%s: %d added, %d removed\n", change.Path, len(change.Added), len(change.Removed))
	}
	fmt.Fprintf(out, "%d keys in %d files, %d new translations\n", result.Keys.Len(), result.Files, added)
	return nil
}
