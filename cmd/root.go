package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/apagar/certo/internal/config"
	"github.com/apagar/certo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "certo",
	Short: "Terminal trainer for IT certification exams",
	Long: "Certo — adaptive terminal trainer for IT certification exams.\n" +
		"Questions are drawn toward your weakest topics; progress is saved\n" +
		"automatically between sessions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CERTO_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to question bank JSON (overrides CERTO_BANK env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then CERTO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveBankPath returns the question bank path using --bank, then
// CERTO_BANK, then bank.json next to the database.
func resolveBankPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		return p, nil
	}
	if p := os.Getenv("CERTO_BANK"); p != "" {
		return p, nil
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return "", err
	}
	p := filepath.Join(filepath.Dir(dbPath), "bank.json")
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("no question bank found: pass --bank, set CERTO_BANK, or place one at %s", p)
	}
	return p, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return config.Load(p)
	}
	return config.Load(config.DefaultPath())
}
