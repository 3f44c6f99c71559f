package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List index files and their contents",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("=== Indexes ===")
	fmt.Printf("  dir: %s\n\n", cfg.IndexDir)

	files, err := filepath.Glob(filepath.Join(cfg.IndexDir, "*"+imageindex.FileExt))
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		printMiss("", "no index files (run: chroma index <dir>)")
		return nil
	}

	var broken []string
	total := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, f := range files {
		name := imageindex.NameFromPath(f)
		info, err := os.Stat(f)
		if err != nil {
			broken = append(broken, fmt.Sprintf("  ✗  [%s] stat error: %v", name, err))
			continue
		}
		idx, err := imageindex.Load(f)
		if err != nil {
			broken = append(broken, fmt.Sprintf("  ✗  [%s] %v", name, err))
			continue
		}
		total += idx.Len()
		fmt.Fprintf(w, "  ✓  [%s]\t%d image(s)\t%s\t%s\t%s\n",
			name, idx.Len(), humanSize(info.Size()), fileLayout(f), info.ModTime().Format("2006-01-02 15:04"))
	}
	_ = w.Flush()

	if len(broken) > 0 {
		printBullet("Unreadable:")
		for _, b := range broken {
			fmt.Fprintln(os.Stderr, b)
		}
	}
	fmt.Printf("\n  %d index(es), %d image(s)\n", len(files)-len(broken), total)
	return nil
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
