package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/spf13/cobra"
)

var flagRemovePurge bool

var removeCmd = &cobra.Command{
	Use:   "remove <index-name>",
	Short: "Remove an index file",
	Long: `Remove <index_dir>/<index-name>.idb.

The file is kept as <index-name>.idb.bak, replacing an older backup,
unless --purge is given.

  chroma remove photos          Move photos.idb to photos.idb.bak
  chroma remove photos --purge  Delete photos.idb`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&flagRemovePurge, "purge", false, "Delete the file instead of keeping a backup")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := args[0]
	path := imageindex.PathFor(cfg.IndexDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("index %q not found in %s", name, cfg.IndexDir)
	}

	unlock, err := imageindex.LockDir(cfg.IndexDir, 10*time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	if flagRemovePurge {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("cannot delete %s: %w", path, err)
		}
		printOK(name, fmt.Sprintf("deleted %s", path))
		return nil
	}

	backup := path + ".bak"
	_ = os.Remove(backup)
	if err := os.Rename(path, backup); err != nil {
		return fmt.Errorf("cannot move %s: %w", path, err)
	}
	printOK(name, fmt.Sprintf("removed (backup: %s)", backup))
	return nil
}
