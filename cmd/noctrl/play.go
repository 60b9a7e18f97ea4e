package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/noctrl/internal/config"
	"github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/platform/tui"
	"github.com/vovakirdan/noctrl/internal/storage"
)

var (
	flagLevel      int
	flagDifficulty string
	flagAdvance    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a level pack",
	Long: `Start playing. Without --level a level picker is shown first.

Controls (defaults, see the keys section of the config):
  H/J/K/L    - Activate control slot 1-4
  R          - Restart the level (after the last level: the run)
  N          - Skip to the next level (needs --advance)
  Ctrl+S     - Save a text screenshot to ~/.noctrl/screenshots
  ?          - Show all keys
  Q/Ctrl+C   - Quit

Difficulty options set the energy of controls picked up on the map:
  easy   - 8
  normal - 5
  hard   - 3

Examples:
  noctrl play
  noctrl play --level 3
  noctrl play --difficulty hard
  noctrl play --levels-dir ./mypack --config ./noctrl.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start directly at this level")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagAdvance, "advance", false, "Enable the level skip key")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty)); err != nil {
		return err
	}
	if flagAdvance {
		cfg.Debug.AllowAdvance = true
	}

	logFile, err := openLogFile()
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()
	logger, err := newLogger(logFile, "noctrl")
	if err != nil {
		return err
	}

	loader, err := openPack(cfg)
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open records database: %v\n", err)
		logger.Warn("playing without records", "err", err)
		// Continue without storage - game still works
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
		},
		Player: localPlayer(),
		Theme:  theme(),
		Logger: logger,
	}

	// The picker is skipped when a start level was asked for.
	level := cfg.Levels.Start
	if cmd.Flags().Changed("level") {
		level = flagLevel
	} else if level == 0 {
		return tui.RunSession(loader, store, opts)
	}

	game := tui.NewGame(loader, opts)
	if err := game.Start(level); err != nil {
		return fmt.Errorf("cannot start level %d: %w", level, err)
	}
	return tui.Run(game, store, loader.Pack().Name, opts)
}

// localPlayer returns the name stored with local records.
func localPlayer() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
