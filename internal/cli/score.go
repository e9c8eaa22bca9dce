package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScoreCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "score <slug>",
		Short: "Show a package's score and the values behind it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			a, err := buildApp(ctx, *cfgPath, logger)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			p, err := a.catalog.PackageBySlug(ctx, args[0])
			if err != nil {
				return fmt.Errorf("package %q: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", p.Title)
			fmt.Fprintf(out, "  score:     %d\n", a.catalog.Score(ctx, p))
			fmt.Fprintf(out, "  watchers:  %d\n", p.RepoWatchers)

			if last, err := a.catalog.LastUpdated(ctx, p); err == nil && last != nil {
				fmt.Fprintf(out, "  last commit: %s\n", last.Format("2006-01-02"))
			}
			if v, err := a.catalog.PyPIVersion(ctx, p); err == nil && v != "" {
				fmt.Fprintf(out, "  pypi version: %s\n", v)
			}
			if rel, err := a.catalog.LastReleased(ctx, p); err == nil && rel != nil {
				fmt.Fprintf(out, "  last release: %s\n", rel.Number)
			}
			if p.SupportsPython3 != nil {
				fmt.Fprintf(out, "  python 3:  %t\n", *p.SupportsPython3)
			}
			return nil
		},
	}
}
