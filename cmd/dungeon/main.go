// dungeon is a terminal dungeon crawler: collect the keys, reach the exit
// and survive the monsters that hunt you on their own goroutines.
//
// Usage:
//
//	dungeon play      - Play a round in the terminal
//	dungeon serve     - Start SSH server for remote play
//	dungeon scores    - Show finished runs
//	dungeon gen       - Print a generated level as ASCII
//
// Global flags:
//
//	--fps <rate>          - Front-end frame rate (default: 30)
//	--seed <value>        - RNG seed for reproducible levels
//	--db <path>           - Runs database (default: ~/.dungeon/dungeon.db)
//	--config <path>       - Custom dungeon.yaml
//	--difficulty <name>   - easy, normal or hard
//	--log <path>          - Log file (default: ~/.dungeon/dungeon.log)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dungeon-conquerors/internal/config"
	"github.com/vovakirdan/dungeon-conquerors/internal/storage"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dungeon",
	Short: "Dungeon Conquerors - a terminal dungeon crawler",
	Long: `Dungeon Conquerors drops you at the top-left of a generated dungeon.
Collect every key to unlock the exit in the far bottom-right corner and escape
while chasing, wandering, guarding and intercepting monsters hunt you.

Available commands:
  play     - Play a round in this terminal
  serve    - Start SSH server for remote play
  scores   - View finished runs
  gen      - Print a generated level

Examples:
  dungeon play
  dungeon play --difficulty hard --seed 42
  dungeon serve --ssh :2222 --spectate :8081
  dungeon gen --level 2`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Front-end frame rate")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom dungeon.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.dungeon/dungeon.log", "Path to log file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(genCmd)
}

// loadConfig resolves the dungeon configuration from the global flags.
func loadConfig() (config.DungeonConfig, error) {
	cfg, err := config.LoadWithPreset(flagConfig, flagDifficulty)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// openLogger writes logs to the --log file so they never touch the
// alternate screen. The returned closer must be called on exit.
func openLogger(prefix string) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	path := expandHome(flagLogPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, f, nil
}
