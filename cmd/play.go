package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apagar/certo/internal/app"
	"github.com/apagar/certo/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a session directly, skipping the menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		timed, _ := cmd.Flags().GetBool("timed")
		review, _ := cmd.Flags().GetBool("review")
		if timed && review {
			return fmt.Errorf("--timed and --review are mutually exclusive")
		}

		mode := session.ModePractice
		if timed {
			mode = session.ModeTimed
		}
		if review {
			mode = session.ModeReview
		}
		return runApp(cmd, mode.String())
	},
}

func init() {
	playCmd.Flags().Bool("timed", false, "Run against the clock")
	playCmd.Flags().Bool("review", false, "Revisit previously missed questions")
	playCmd.Flags().Int("count", 0, "Number of questions (overrides config)")
}

// runApp resolves paths and config, then launches the TUI. An empty
// mode opens the home menu.
func runApp(cmd *cobra.Command, mode string) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	bankPath, err := resolveBankPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := app.Options{
		DBPath:   dbPath,
		BankPath: bankPath,
		Config:   cfg,
	}
	if mode != "" {
		opts.HasMode = true
		switch mode {
		case "timed":
			opts.StartMode = session.ModeTimed
		case "review":
			opts.StartMode = session.ModeReview
		default:
			opts.StartMode = session.ModePractice
		}
		opts.Count, _ = cmd.Flags().GetInt("count")
	}
	return app.Run(opts)
}
