package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dungeon-conquerors/internal/platform/tui"
	"github.com/vovakirdan/dungeon-conquerors/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresPlayer string
	flagScoresPlain  bool
	flagScoresStats  bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show finished runs",
	Long: `Display the best runs recorded in the database.

Without flags an interactive table opens (tab switches between top and
recent runs). Use --plain for a printable list.

Examples:
  dungeon scores
  dungeon scores --plain --limit 5
  dungeon scores --player alice --plain
  dungeon scores --stats`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to print")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only show runs by this player")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print instead of opening the table")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Print aggregate statistics")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded run")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open runs database: %w", err)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("All runs deleted.")
		return nil
	case flagScoresStats:
		return printStats(store)
	case flagScoresPlain || flagScoresPlayer != "" || !term.IsTerminal(int(os.Stdout.Fd())):
		return printRuns(store)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return tui.RunScoreboard(store, width, height)
}

func printRuns(store *storage.Store) error {
	var (
		runs []storage.Run
		err  error
	)
	if flagScoresPlayer != "" {
		runs, err = store.PlayerRuns(flagScoresPlayer, flagScoresLimit)
	} else {
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		return err
	}

	fmt.Println("High Scores - Dungeon Conquerors")
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'dungeon play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-7s  %-3s  %-8s  %-6s  %s\n", "Rank", "Player", "Score", "Lvl", "Outcome", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-7s  %-3s  %-8s  %-6s  %s\n", "----", "------", "-----", "---", "-------", "----", "----")
	for i, r := range runs {
		d := time.Duration(r.Duration) * time.Second
		fmt.Printf("  %-4d  %-12s  %-7d  %-3d  %-8s  %-6s  %s\n",
			i+1, r.Player, r.Score, r.Level, r.Outcome, d, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if best, err := store.HighScore(); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printStats(store *storage.Store) error {
	st, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Runs:       %d\n", st.Runs)
	fmt.Printf("Victories:  %d\n", st.Victories)
	fmt.Printf("Defeats:    %d\n", st.Defeats)
	fmt.Printf("Exits:      %d\n", st.Exits)
	fmt.Printf("High score: %d\n", st.HighScore)
	fmt.Printf("Average:    %.1f\n", st.AvgScore)
	if !st.LastPlayed.IsZero() {
		fmt.Printf("Last run:   %s\n", st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
