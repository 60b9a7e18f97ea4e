package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/noctrl/internal/platform/tui"
	"github.com/vovakirdan/noctrl/internal/storage"
)

var (
	flagRecordsLimit  int
	flagRecordsBrowse bool
	flagRecordsReset  bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show the best runs and level clears",
	Long: `Display the top runs and the fewest-moves clear of every level of
the current pack.

Examples:
  noctrl records
  noctrl records --browse
  noctrl records --levels-dir ./mypack --limit 20
  noctrl records --reset`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagRecordsLimit, "limit", 10, "Number of runs to show")
	recordsCmd.Flags().BoolVar(&flagRecordsBrowse, "browse", false, "Open the interactive records screen")
	recordsCmd.Flags().BoolVar(&flagRecordsReset, "reset", false, "Delete all records of the pack")
}

func runRecords(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loader, err := openPack(cfg)
	if err != nil {
		return err
	}
	pack := loader.Pack()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open records database: %w", err)
	}
	defer store.Close()

	if flagRecordsReset {
		if err := store.ClearPack(pack.Name); err != nil {
			return err
		}
		fmt.Printf("Records of %s deleted.\n", pack.Name)
		return nil
	}

	if flagRecordsBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunRecords(store, pack, width, height, theme())
	}

	runs, err := store.TopRuns(pack.Name, flagRecordsLimit)
	if err != nil {
		return err
	}
	clears, err := store.BestClears(pack.Name)
	if err != nil {
		return err
	}

	fmt.Printf("Records - %s\n", pack.Name)
	fmt.Println()

	if len(runs) == 0 && len(clears) == 0 {
		fmt.Println("No records yet.")
		fmt.Println()
		fmt.Println("Play 'noctrl play' to set the first one!")
		return nil
	}

	fmt.Println("Top runs:")
	fmt.Printf("  %-4s  %-12s  %-7s  %-5s  %-9s  %s\n", "Rank", "Player", "Cleared", "Moves", "Result", "Date")
	fmt.Printf("  %-4s  %-12s  %-7s  %-5s  %-9s  %s\n", "----", "------", "-------", "-----", "------", "----")
	for i, r := range runs {
		result := fmt.Sprintf("level %d", r.Level)
		if r.Won {
			result = "complete"
		}
		fmt.Printf("  %-4d  %-12s  %-7d  %-5d  %-9s  %s\n",
			i+1, r.Player, r.Cleared, r.Moves, result, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Best clears:")
	fmt.Printf("  %-5s  %-20s  %-5s  %s\n", "Level", "Title", "Moves", "Player")
	fmt.Printf("  %-5s  %-20s  %-5s  %s\n", "-----", "-----", "-----", "------")
	for _, c := range clears {
		fmt.Printf("  %-5d  %-20s  %-5d  %s\n", c.Level, pack.Title(c.Level), c.Moves, c.Player)
	}

	stats, err := store.GetPackStats(pack.Name)
	if err == nil && stats.Runs > 0 {
		fmt.Println()
		fmt.Printf("Runs: %d  Completed: %d  Total moves: %d\n", stats.Runs, stats.Wins, stats.TotalMoves)
	}
	return nil
}
