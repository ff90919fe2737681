package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/strat/internal/config"
	"github.com/example/strat/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the strat workspace",
		Long:  `Initialize the strat database and write a default .strat/config.json in the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}

			if _, err := config.LoadConfig(workDir); err == nil {
				fmt.Printf("%s Config already exists at %s/.strat/config.json\n", warnMark, workDir)
			} else {
				if err := config.SaveConfig(workDir, config.Default()); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Printf("%s Config written to %s/.strat/config.json\n", okMark, workDir)
			}

			cfg, err := config.LoadOrDefault(workDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path := cfg.DatabasePath
			if path == "" {
				if path, err = db.DefaultPath(); err != nil {
					return fmt.Errorf("failed to resolve database path: %w", err)
				}
			}
			db.SetPath(path)
			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Printf("%s Database initialized at %s\n", okMark, path)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  strat project create \"<research idea>\"")
			fmt.Println("  strat stage next -p <project-id>")

			return nil
		},
	}
}
