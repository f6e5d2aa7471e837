package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/game"
	"github.com/vovakirdan/dungeon-conquerors/internal/platform/tui"
	"github.com/vovakirdan/dungeon-conquerors/internal/spectate"
	"github.com/vovakirdan/dungeon-conquerors/internal/storage"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

var (
	flagSpectate string
	flagPlayer   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Start a round in this terminal.

Controls:
  Arrows/WASD  - Move
  Esc          - Leave the dungeon (ends the round)
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Softer hits, longer grace period, fewer monsters
  normal - Defaults from dungeon.yaml
  hard   - Harder hits, short grace period, more monsters and keys

Examples:
  dungeon play
  dungeon play --difficulty easy
  dungeon play --config ./my-dungeon.yaml
  dungeon play --spectate :8081`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a WebSocket spectator feed on this address")
	playCmd.Flags().StringVar(&flagPlayer, "name", os.Getenv("USER"), "Player name for the runs table")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := openLogger("dungeon")
	if err != nil {
		return err
	}
	defer closer.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		logger.Warn("could not open runs database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Store:  store,
		Player: flagPlayer,
		Logger: logger,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if flagSpectate != "" {
		hub := spectate.NewHub(0, logger)
		opts.Publisher = hub
		go func() {
			if err := hub.ListenAndServe(ctx, flagSpectate); err != nil {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()
	}

	res, err := tui.Run(opts)
	if err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	printResult(res)
	return nil
}

func printResult(res game.Result) {
	switch res.Outcome {
	case world.OutcomeVictory:
		fmt.Println("Victory! You conquered the dungeon.")
	case world.OutcomeDefeat:
		fmt.Println("Defeat. The monsters got you.")
	case world.OutcomeExited:
		fmt.Println("You left the dungeon.")
	default:
		return
	}
	fmt.Printf("Final score: %d (level %d, %s, seed %d)\n",
		res.Score, res.Level, res.Duration.Round(time.Second), res.Seed)
}
