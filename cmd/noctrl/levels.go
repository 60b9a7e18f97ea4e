package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Inspect level packs",
	Long: `List or validate the levels of a pack.

The built-in pack is used unless --levels-dir or the levels.dir config
key names a directory.`,
}

var levelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the levels of a pack",
	Args:  cobra.NoArgs,
	RunE:  runLevelsList,
}

var levelsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every level of a pack",
	Long: `Load every level and report parse errors, missing exits and
walkable border cells. Exits with status 1 if any level has a problem.`,
	Args: cobra.NoArgs,
	RunE: runLevelsCheck,
}

func init() {
	levelsCmd.AddCommand(levelsListCmd)
	levelsCmd.AddCommand(levelsCheckCmd)
}

func runLevelsList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loader, err := openPack(cfg)
	if err != nil {
		return err
	}

	pack := loader.Pack()
	count := loader.Count()
	if count == 0 {
		fmt.Printf("Pack %q has no levels.\n", pack.Name)
		return nil
	}

	fmt.Printf("Pack %s (%dx%d):\n", pack.Name, pack.Width, pack.Height)
	fmt.Println()
	fmt.Printf("  %-5s  %s\n", "Level", "Title")
	fmt.Printf("  %-5s  %s\n", "-----", "-----")
	for n := range count {
		fmt.Printf("  %-5d  %s\n", n, pack.Title(n))
	}

	fmt.Println()
	fmt.Println("Run 'noctrl play --level <n>' to start at a level.")
	return nil
}

func runLevelsCheck(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, "noctrl")
	if err != nil {
		return err
	}
	loader, err := openPack(cfg)
	if err != nil {
		return err
	}

	reports := loader.Check()
	if len(reports) == 0 {
		return errors.New("pack has no levels")
	}

	failed := 0
	for _, r := range reports {
		switch {
		case r.Err != nil:
			logger.Error("level does not load", "level", r.Number, "err", r.Err)
		case r.Exits == 0:
			logger.Error("level has no exit", "level", r.Number, "title", r.Title)
		case len(r.OpenBorder) > 0:
			logger.Error("level border is open", "level", r.Number, "title", r.Title,
				"cells", len(r.OpenBorder), "first", r.OpenBorder[0])
		default:
			logger.Info("ok", "level", r.Number, "title", r.Title, "items", r.Items)
		}
		if !r.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d levels have problems", failed, len(reports))
	}
	fmt.Printf("All %d levels of %s are playable.\n", len(reports), loader.Pack().Name)
	return nil
}
