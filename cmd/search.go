package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/kamusis/chroma/internal/search"
	"github.com/spf13/cobra"
)

var (
	flagSearchRank  bool
	flagSearchK     int
	flagSearchDebug bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find indexed images by colour, histogram or path",
	Long: `Search every index in the index directory.

Query terms:
  color:<colour>              dominant shades close to a colour (score >= default_threshold)
  color(<colour>)<op><n>      same, with an explicit comparison (>= <= > < = !=)
  hist:<path>                 histogram similar to an indexed or on-disk image
  hist(<path>)<op><n>
  anything else               must appear in the image path (case-insensitive)

Colours are #RGB, #RRGGBB, #RGBA, #RRGGBBAA or one of
red, green, blue, black, white, yellow.

Example:
  chroma search color:red
  chroma search 'color(#3366cc)>=0.7' beach --rank
  chroma search hist:photos/sunset.jpg --k 10`,
	Args: cobra.MinimumNArgs(0),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&flagSearchRank, "rank", false, "Order results by score instead of index order")
	searchCmd.Flags().IntVar(&flagSearchK, "k", 0, "Number of results to show (0 = all)")
	searchCmd.Flags().BoolVar(&flagSearchDebug, "debug", false, "Print debug information")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := imageindex.NewRegistry(cfg.IndexDir)
	if err := reg.Refresh(); err != nil {
		printWarn("", err.Error())
	}
	indexes := reg.Indexes()
	if len(indexes) == 0 {
		return fmt.Errorf("no indexes found in %s\nRun 'chroma index <dir>' first.", cfg.IndexDir)
	}

	set, err := newPredicates(cfg, reg)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	q, err := search.Parse(query, set, cfg.DefaultThreshold)
	if err != nil {
		return err
	}
	if flagSearchDebug {
		for _, idx := range indexes {
			printInfo(idx.Name(), fmt.Sprintf("%d record(s)", idx.Len()))
		}
		for _, f := range q.Filters {
			printInfo("", fmt.Sprintf("filter %s", f))
		}
		if len(q.Terms) > 0 {
			printInfo("", fmt.Sprintf("terms %v", q.Terms))
		}
	}

	results := search.Evaluate(indexes, q, search.Options{
		Rank:    flagSearchRank,
		Limit:   flagSearchK,
		Workers: cfg.Workers,
	})
	printSearchResults(query, results)
	return nil
}

func printSearchResults(query string, results []search.SearchResult) {
	fmt.Printf("\nchroma search %q\n\n", query)
	fmt.Printf("Results (%d found):\n", len(results))
	if len(results) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, r := range results {
		score := ""
		if r.Why != "keyword" {
			score = fmt.Sprintf("[%.3f]", r.Score)
		}
		fmt.Fprintf(w, "  %d.\t%s\t%s\t(%s)\n", i+1, score, r.Path, r.Index)
		fmt.Fprintf(w, "  - %s  %s\n", shadeSwatch(r), r.Why)
	}
	_ = w.Flush()
}

func shadeSwatch(r search.SearchResult) string {
	var parts []string
	for _, s := range r.Record.BestShades {
		if s.Ratio == 0 {
			continue
		}
		parts = append(parts, s.Color.Hex())
	}
	return strings.Join(parts, " ")
}
