// seraph is a terminal action game where every fight moves a branching story
// toward one of its endings.
//
// Usage:
//
//	seraph play              - Play a run (menu to pick a staff)
//	seraph serve             - Start SSH server and spectator websocket
//	seraph scores            - Show the hall of fame
//	seraph endings           - Show endings reached and staves unlocked
//	seraph validate          - Check a content directory
//	seraph list <what>       - List staves, effects or enemies
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.seraph/seraph.db)
//
// Defaults can also come from SERAPH_* environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zataralive/seraph-ultimo-login/internal/config"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

// envCfg holds SERAPH_* overrides for flag defaults.
var envCfg, envErr = config.LoadEnv()

func main() {
	if envErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", envErr)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "seraph",
	Short: "Seraph - O Último Login, a 2D action run in your terminal",
	Long: `Seraph is a terminal action game. Fight through scenes, pick effects,
and steer the story toward one of its endings.

Available commands:
  play      - Play a run
  serve     - Start SSH server for remote play and a spectator websocket
  scores    - View the hall of fame
  endings   - View endings reached and staves unlocked
  validate  - Check a content directory
  list      - List staves, effects or enemies

Examples:
  seraph play
  seraph play --staff void_gaze_staff --difficulty hard
  seraph serve --ssh :23234 --ws :8080
  seraph scores --limit 5`,
	SilenceUsage: true,
}

func init() {
	fps := envCfg.FPS
	if fps <= 0 {
		fps = 60
	}
	db := envCfg.DB
	if db == "" {
		db = "~/.seraph/seraph.db"
	}

	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", fps, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", db, "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(endingsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
}
