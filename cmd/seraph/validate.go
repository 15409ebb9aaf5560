package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zataralive/seraph-ultimo-login/internal/content"
)

var flagValidateContent string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check content tables for errors",
	Long: `Load the content tables and check every cross reference: choice
targets, effect ids, enemy archetypes, endings and staff unlocks.

Files in --content replace the built-in tables of the same name.
Exits with status 1 when any error is found.

Examples:
  seraph validate
  seraph validate --content ./content`,
	Args: cobra.NoArgs,
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagValidateContent, "content", envCfg.ContentDir, "Directory with content tables")
}

func runValidate(_ *cobra.Command, _ []string) {
	bundle, err := content.Load(flagValidateContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, name := range sortedKeys(bundle.Sources) {
		fmt.Printf("  %-12s %s\n", name, bundle.Sources[name])
	}
	fmt.Println()

	errs := bundle.Validate()
	if len(errs) == 0 {
		fmt.Printf("OK: %d effects, %d enemies, %d endings\n",
			bundle.Effects.Len(), len(bundle.Bestiary.IDs()), len(bundle.Endings.All()))
		return
	}

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	fmt.Fprintf(os.Stderr, "\n%d errors\n", len(errs))
	os.Exit(1)
}
