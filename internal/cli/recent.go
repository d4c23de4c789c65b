package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flowdeck/internal/store"
)

func newRecentCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print recently visited deep links, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, app)
			if err != nil {
				return err
			}
			st, err := store.Open(cmd.Context(), cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open state db: %w", err)
			}
			defer st.Close()

			visits, err := st.RecentLocations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range visits {
				fmt.Fprintf(out, "%s\t%d\t%s\n", v.LastVisited.Format(time.RFC3339), v.Visits, v.URI)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum links to print")
	return cmd
}
