package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zataralive/seraph-ultimo-login/internal/content"
	"github.com/zataralive/seraph-ultimo-login/internal/sim"
	"github.com/zataralive/seraph-ultimo-login/internal/storage"
)

var flagEndingsContent string

var endingsCmd = &cobra.Command{
	Use:   "endings",
	Short: "Show endings reached and staves unlocked",
	Long: `List every ending, marking the ones you have reached, and every
staff, marking the ones you have unlocked. Unreached endings stay hidden.

Examples:
  seraph endings
  seraph endings --db ./seraph.db`,
	Args: cobra.NoArgs,
	Run:  runEndings,
}

func init() {
	endingsCmd.Flags().StringVar(&flagEndingsContent, "content", envCfg.ContentDir, "Directory with content tables")
}

func runEndings(_ *cobra.Command, _ []string) {
	bundle, err := content.Load(flagEndingsContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tr, err := sim.LoadTrophies(store, bundle.Endings)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Endings %d/%d\n\n", tr.AchievedCount(), len(tr.Endings))
	for _, e := range tr.Endings {
		mark, title := " ", "???"
		if e.Achieved {
			mark, title = "x", e.Title
		}
		fmt.Printf("  [%s] %-16s %-10s %s\n", mark, e.Affinity.DisplayName(), e.Variant, title)
	}

	fmt.Printf("\nStaves %d/%d\n\n", tr.UnlockedCount(), len(tr.Staves))
	for _, s := range tr.Staves {
		mark := " "
		if s.Unlocked {
			mark = "x"
		}
		fmt.Printf("  [%s] %-24s %s\n", mark, s.ID, s.Title)
	}
}
