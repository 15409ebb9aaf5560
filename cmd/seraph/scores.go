package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zataralive/seraph-ultimo-login/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the hall of fame",
	Long: `Display the best recorded runs.

Examples:
  seraph scores
  seraph scores --limit 3`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.HallSize, "Number of entries to show")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}

	scores, err := store.TopScores(flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Println("Hall da Fama")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'seraph play' to set the first record!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-8s  %-28s  %s\n", "Rank", "Name", "Score", "Ending", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-28s  %s\n", "----", "----", "-----", "------", "----")

	for i, entry := range scores {
		ending := entry.Ending
		if ending == "" {
			ending = "-"
		}
		dateStr := entry.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-8d  %-28s  %s\n", i+1, entry.Name, entry.Score, ending, dateStr)
	}

	fmt.Println()
	if stats, statsErr := store.Stats(); statsErr == nil {
		fmt.Printf("Best: %d  Average: %.0f  Runs with an ending: %d/%d\n",
			stats.Best, stats.Average, stats.WithEnding, stats.Entries)
	}
}
