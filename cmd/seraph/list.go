package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zataralive/seraph-ultimo-login/internal/content"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
)

var flagListContent string

var listCmd = &cobra.Command{
	Use:       "list [staves|effects|enemies]",
	Short:     "List staves, effects or enemies",
	Long:      `Shows the staves, the effect pool or the bestiary. Defaults to staves.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"staves", "effects", "enemies"},
	Run:       runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListContent, "content", envCfg.ContentDir, "Directory with content tables")
}

func runList(_ *cobra.Command, args []string) {
	what := "staves"
	if len(args) > 0 {
		what = args[0]
	}

	switch what {
	case "staves":
		rows := [][2]string{}
		for _, s := range registry.List() {
			rows = append(rows, [2]string{s.ID, s.Title})
		}
		printTable("Staves", "ID", "Title", rows)
		fmt.Println("Run 'seraph play --staff <id>' to start with an unlocked staff.")
		return
	case "effects", "enemies":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown list %q (want staves, effects or enemies)\n", what)
		os.Exit(1)
	}

	bundle, err := content.Load(flagListContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rows := [][2]string{}
	if what == "effects" {
		for _, id := range bundle.Effects.IDs() {
			d, _ := bundle.Effects.Get(id)
			rows = append(rows, [2]string{id, fmt.Sprintf("%s (%s)", d.Name, d.Rarity)})
		}
		printTable("Effects", "ID", "Name", rows)
		return
	}
	for _, id := range bundle.Bestiary.IDs() {
		a, _ := bundle.Bestiary.Get(id)
		rows = append(rows, [2]string{id, fmt.Sprintf("%s  hp %.0f", a.Name, a.HP)})
	}
	printTable("Enemies", "ID", "Name", rows)
}

// printTable prints two aligned columns.
func printTable(title, left, right string, rows [][2]string) {
	if len(rows) == 0 {
		fmt.Printf("No %s available.\n", title)
		return
	}

	fmt.Printf("%s:\n\n", title)

	// Calculate column widths
	width := len(left)
	for _, r := range rows {
		width = max(width, len(r[0]))
	}

	fmt.Printf("  %-*s  %s\n", width, left, right)
	fmt.Printf("  %-*s  %s\n", width, "--", "-----")
	for _, r := range rows {
		fmt.Printf("  %-*s  %s\n", width, r[0], r[1])
	}
	fmt.Println()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
