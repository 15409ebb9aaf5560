package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zataralive/seraph-ultimo-login/internal/audio"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/platform/tui"
	"github.com/zataralive/seraph-ultimo-login/internal/registry"
	"github.com/zataralive/seraph-ultimo-login/internal/storage"
)

var (
	flagStaff      string
	flagConfig     string
	flagDifficulty string
	flagContent    string
	flagAudio      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run. Without --staff a menu lets you pick one of the
staves you have unlocked.

Controls:
  A/D, Left/Right  - Move
  Space/W/Up       - Jump
  F/J, mouse       - Shoot (the mouse aims)
  1-4, Enter       - Pick a choice
  P/Esc            - Pause
  R                - Restart (after the run ends)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower scaling between scenes
  normal - Default scaling
  hard   - Enemies start a few scenes stronger
  fixed  - No scaling at all

Examples:
  seraph play
  seraph play --staff flesh_weaver_staff
  seraph play --difficulty hard --audio
  seraph play --config ./my-seraph.yaml --content ./content`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagStaff, "staff", "", "Start right away with this staff (must be unlocked)")
	playCmd.Flags().StringVar(&flagConfig, "config", envCfg.ConfigPath, "Path to custom tuning YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", envCfg.Difficulty, "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagContent, "content", envCfg.ContentDir, "Directory with content tables overriding the built-in ones")
	playCmd.Flags().BoolVar(&flagAudio, "audio", envCfg.Audio, "Play synthesized sound effects")
}

func runPlay(_ *cobra.Command, _ []string) {
	if flagStaff != "" && !registry.Exists(flagStaff) {
		fmt.Fprintf(os.Stderr, "Error: unknown staff %q\n", flagStaff)
		fmt.Fprintln(os.Stderr, "Run 'seraph list staves' to see available staves.")
		os.Exit(1)
	}

	template, err := runTemplate(flagConfig, flagDifficulty, flagContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the run is just not recorded
		store = nil
	}

	var player *audio.Player
	if flagAudio {
		player = audio.NewPlayer(0.5, nil)
		if initErr := player.Init(); initErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", initErr)
			player = nil
		}
	}

	runErr := tui.Run(tui.SessionOptions{
		Game:   template,
		Config: cfg,
		Deps:   tui.Deps{Store: store, Audio: player},
		Staff:  flagStaff,
	})

	// Close resources before potential exit
	if player != nil {
		player.Close()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
