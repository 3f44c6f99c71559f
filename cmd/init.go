package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/chroma/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [image-root...]",
	Short: "Create ~/.chroma with a default configuration",
	Long: `Initialize chroma at ~/.chroma/.

Writes chroma.yaml (unless it exists), a .env template for overrides, and
the index directory. Directories given as arguments are stored as the
default roots for 'chroma index'.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	// ── 1. Resolve ~/.chroma directory ────────────────────────────────────────
	dir, err := config.ChromaDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("chroma directory ready: %s", dir))

	// ── 2. Write chroma.yaml if missing ───────────────────────────────────────
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		cfg.Roots = append(cfg.Roots, args...)
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
		if len(args) > 0 {
			printWarn("", "roots not changed; edit chroma.yaml to update them")
		}
	}

	// ── 3. Write .env template ────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, _ := config.DotEnvPath()
	printOK("", fmt.Sprintf("Overrides file ready: %s", envPath))

	// ── 4. Create index dir ───────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", cfg.IndexDir, err)
	}
	printOK("", fmt.Sprintf("Index directory ready: %s", cfg.IndexDir))

	fmt.Println("\n✓  chroma init complete. Run 'chroma index <dir>' to build your first index.")
	return nil
}
