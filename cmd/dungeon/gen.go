package main

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dungeon-conquerors/internal/config"
	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/level"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

var (
	flagGenLevel int
	flagGenStats bool
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Print a generated level",
	Long: `Generate a level with the configured size and print it as ASCII.

Legend: # wall, + door, $ treasure, k key, E exit, @ spawn, M monster.

Examples:
  dungeon gen
  dungeon gen --level 2 --seed 42
  dungeon gen --stats=false`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

func init() {
	genCmd.Flags().IntVar(&flagGenLevel, "level", 1, "Level to generate (1 or 2)")
	genCmd.Flags().BoolVar(&flagGenStats, "stats", true, "Print tile counts and reachability")
}

func runGen(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	snap, err := generate(cfg, flagGenLevel, seed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render(&snap))
	if flagGenStats {
		printLevelStats(out, &snap, seed)
	}
	return nil
}

// generate builds one level on a throwaway world.
func generate(cfg config.DungeonConfig, lvl int, seed int64) (world.Snapshot, error) {
	logger := log.New(io.Discard)
	store, err := world.New(cfg.WorldSize(), logger)
	if err != nil {
		return world.Snapshot{}, err
	}
	defer store.Destroy()

	gen := &level.Generator{KeysRequired: cfg.KeysRequired(), Logger: logger}
	rng := rand.New(rand.NewSource(seed))
	store.With(func(st *world.State) {
		err = gen.Generate(st, lvl, rng)
	})
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("generate level %d: %w", lvl, err)
	}
	return store.Snapshot(), nil
}

// render overlays spawn and monsters on the map glyphs.
func render(snap *world.Snapshot) string {
	rows := snap.Map.Rows()
	grid := make([][]rune, len(rows))
	for y, r := range rows {
		grid[y] = []rune(r)
	}
	for _, e := range snap.Enemies {
		if e.Active {
			grid[e.Y][e.X] = 'M'
		}
	}
	grid[world.Spawn.Y][world.Spawn.X] = '@'

	lines := make([]string, len(grid))
	for y, r := range grid {
		lines[y] = string(r)
	}
	return strings.Join(lines, "\n")
}

func printLevelStats(w io.Writer, snap *world.Snapshot, seed int64) {
	m := &snap.Map
	reach := level.Reachable(m, world.Spawn)

	reachable := func(t world.Tile) (n, total int) {
		for y := range m.Height {
			for x := range m.Width {
				if m.At(x, y) != t {
					continue
				}
				total++
				if reach[core.Pt(x, y)] {
					n++
				}
			}
		}
		return n, total
	}
	keys, keyTotal := reachable(world.TileKey)
	exits, exitTotal := reachable(world.TileExit)
	walls := m.Count(world.TileWall)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "seed %d, level %d, %dx%d\n", seed, snap.Level, m.Width, m.Height)
	fmt.Fprintf(w, "walls      %d (%.0f%%)\n", walls, 100*float64(walls)/float64(m.Width*m.Height))
	fmt.Fprintf(w, "doors      %d\n", m.Count(world.TileDoor))
	fmt.Fprintf(w, "treasures  %d\n", m.Count(world.TileTreasure))
	fmt.Fprintf(w, "keys       %d/%d reachable (required %d)\n", keys, keyTotal, snap.KeysRequired)
	fmt.Fprintf(w, "exit       %d/%d reachable\n", exits, exitTotal)
}
