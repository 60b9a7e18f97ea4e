// noctrl is a terminal puzzle game where every move spends a control.
//
// Usage:
//
//	noctrl play              - Pick a level and play
//	noctrl play --level 2    - Play starting at level 2
//	noctrl levels list       - List the levels of a pack
//	noctrl levels check      - Validate every level of a pack
//	noctrl records           - Show the best runs and clears
//	noctrl serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--db <path>         - Set database path (default: ~/.noctrl/records.db)
//	--config <path>     - Use a specific config file
//	--levels-dir <dir>  - Play a level pack from a directory
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/noctrl/internal/config"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels"
	"github.com/vovakirdan/noctrl/internal/platform/tui"
)

var (
	// Global flags
	flagFPS       int
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagLogLevel  string
	flagMono      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "noctrl",
	Short: "NoCtrl - a puzzle where every move costs a control",
	Long: `NoCtrl is a terminal puzzle game. You move only by spending
direction controls, each with limited energy. Collect more controls on
the way and reach the exit before you run out.

Available commands:
  play     - Pick a level and play
  levels   - List or validate level packs
  records  - View best runs and level clears
  serve    - Start SSH server for remote play

Examples:
  noctrl play
  noctrl play --level 2 --difficulty hard
  noctrl levels check --levels-dir ./mypack
  noctrl serve --ssh :2222`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.noctrl/records.db", "Path to records database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels-dir", "", "Level pack directory (default: built-in pack)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagMono, "mono", false, "Use a theme without colors in menus")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates the command logger writing to w.
func newLogger(w *os.File, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens ~/.noctrl/noctrl.log for appending, so logs do not
// draw over the game screen.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".noctrl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "noctrl.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// loadConfig loads the configuration and applies the level flags.
func loadConfig() (config.NoCtrlConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	return cfg, nil
}

// openPack opens the level pack selected by the configuration.
func openPack(cfg config.NoCtrlConfig) (*levels.Loader, error) {
	loader, err := levels.Open(cfg.Levels.Dir)
	if err != nil {
		return nil, fmt.Errorf("cannot open level pack: %w", err)
	}
	return loader, nil
}

// theme returns the menu theme selected by --mono.
func theme() tui.Theme {
	if flagMono {
		return tui.MonochromeTheme()
	}
	return tui.DefaultTheme()
}
