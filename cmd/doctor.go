package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamusis/chroma/internal/config"
	"github.com/kamusis/chroma/internal/histogram"
	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that chroma's configuration and index files are usable.
Run this command when something seems wrong, or before filing a bug report.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.AddCommand(doctorFixCmd)
	rootCmd.AddCommand(doctorCmd)
}

var doctorFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Automatically fix detected issues",
	Long: `Fix detected issues in the chroma environment.

Currently fixes:
  - Temporary files left behind by interrupted 'chroma index' runs

Run 'chroma doctor' first to see what will be fixed.`,
	RunE: runDoctorFix,
}

func runDoctorFix(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printSection("chroma doctor fix")

	fmt.Println("\n[ Stale temporary files ]")
	stale := findStaleTempFiles(cfg.IndexDir)
	if len(stale) == 0 {
		printOK("", "no temporary files found — nothing to fix")
		return nil
	}

	unlock, err := imageindex.LockDir(cfg.IndexDir, 0)
	if err != nil {
		return err
	}
	defer unlock()

	var failed int
	for _, name := range stale {
		if err := os.Remove(filepath.Join(cfg.IndexDir, name)); err != nil {
			printErr("", fmt.Sprintf("cannot delete %s: %v", name, err))
			failed++
		} else {
			printOK("", fmt.Sprintf("deleted %s", name))
		}
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be deleted", failed)
	}
	fmt.Printf("  ✓  %d temporary file(s) removed.\n", len(stale))
	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("chroma doctor")
	fmt.Println()

	// ── Check 1: chroma.yaml ──────────────────────────────────────────────────
	fmt.Println("[ chroma.yaml ]")
	cfgPath, _ := config.ConfigPath()
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		printWarn("", fmt.Sprintf("%s not found — using defaults (run 'chroma init' to create it)", cfgPath))
	}
	cfg, loadErr := loadConfig()
	if loadErr != nil {
		failD("%v", loadErr)
	} else {
		printOK("", fmt.Sprintf("config loaded — index_dir %s", cfg.IndexDir))
		if _, err := histogram.ParseMetric(cfg.HistogramMetric); err != nil {
			failD("%v", err)
		}
		if cfg.DefaultThreshold < 0 || cfg.DefaultThreshold > 1 {
			printWarn("", fmt.Sprintf("default_threshold %.3f is outside [0, 1]", cfg.DefaultThreshold))
		}
	}
	fmt.Println()

	// ── Check 2: image roots ──────────────────────────────────────────────────
	fmt.Println("[ Image roots ]")
	if loadErr == nil {
		if len(cfg.Roots) == 0 {
			printSkip("", "no roots configured (pass directories to 'chroma index')")
		}
		for _, r := range cfg.Roots {
			if info, err := os.Stat(r); err != nil || !info.IsDir() {
				printWarn("", fmt.Sprintf("root not found: %s", r))
			} else {
				printOK("", r)
			}
		}
	} else {
		printWarn("", "skipped (config not loaded)")
	}
	fmt.Println()

	// ── Check 3: index files ──────────────────────────────────────────────────
	fmt.Println("[ Index files ]")
	if loadErr == nil {
		files, _ := filepath.Glob(filepath.Join(cfg.IndexDir, "*"+imageindex.FileExt))
		sort.Strings(files)
		if _, err := os.Stat(cfg.IndexDir); os.IsNotExist(err) {
			printMiss("", fmt.Sprintf("index dir does not exist yet: %s", cfg.IndexDir))
		} else if len(files) == 0 {
			printMiss("", "no index files — run 'chroma index <dir>'")
		}
		for _, f := range files {
			name := imageindex.NameFromPath(f)
			idx, err := imageindex.Load(f)
			if err != nil {
				failD("[%s] %v", name, err)
				continue
			}
			printOK(name, fmt.Sprintf("%d record(s), %s layout", idx.Len(), fileLayout(f)))
		}
	} else {
		printWarn("", "skipped (config not loaded)")
	}
	fmt.Println()

	// ── Check 4: leftovers from interrupted runs ──────────────────────────────
	fmt.Println("[ Stale temporary files ]")
	if loadErr == nil {
		stale := findStaleTempFiles(cfg.IndexDir)
		if len(stale) == 0 {
			printOK("", "none found")
		} else {
			for _, s := range stale {
				printWarn("", s)
			}
			fmt.Printf("\n  ⚠  %d temporary file(s) found. Run 'chroma doctor fix' to remove them.\n", len(stale))
			allOK = false
		}
	} else {
		printWarn("", "skipped (config not loaded)")
	}
	fmt.Println()

	// ── Summary ──────────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. chroma is ready to use.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// fileLayout reports whether an index file carries the versioned header.
func fileLayout(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "unknown"
	}
	defer f.Close()
	head := make([]byte, len(imageindex.Magic))
	if _, err := io.ReadFull(f, head); err == nil && string(head) == imageindex.Magic {
		return fmt.Sprintf("v%d", imageindex.FormatVersion)
	}
	return "legacy"
}

// findStaleTempFiles lists the temporary files imageindex.Write leaves when
// it is interrupted.
func findStaleTempFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var found []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp") {
			found = append(found, name)
		}
	}
	return found
}
