package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowdeck/internal/nav"
)

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <uri>",
		Short: "Start the dashboard at a deep link",
		Long: `Start the dashboard at a temporal:// deep link, as printed by yank (y)
inside the dashboard or by "flowdeck recent". The link is validated before
anything connects; a malformed link fails fast with the parse error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := nav.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid link %q: %w", args[0], err)
			}
			return runTUI(cmd, app, &loc)
		},
	}
}
