package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-topic mastery without opening the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		snap, err := st.SnapshotRepo().Latest(context.Background())
		if err != nil || snap == nil {
			fmt.Println("No progress recorded yet. Run `certo` to start practicing.")
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tracker := progress.NewTracker(&snap.Data, cfg.Thresholds())

		streak := tracker.Streak()
		fmt.Printf("Streak: %d day(s), best %d\n", streak.Current, streak.Best)
		fmt.Printf("Sessions completed: %d\n\n", len(snap.Data.Sessions))

		profiles := tracker.Profiles()
		topics := make([]string, 0, len(profiles))
		for topic := range profiles {
			topics = append(topics, topic)
		}
		sort.Strings(topics)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tLEVEL\tCORRECT\tANSWERED\tACCURACY")
		for _, topic := range topics {
			p := profiles[topic]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f%%\n",
				topic, p.Level, p.Correct, p.Answered, p.Ratio()*100)
		}
		return w.Flush()
	},
}
