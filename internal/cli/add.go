package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/pkg/store"
)

func newAddCmd(cfgPath *string) *cobra.Command {
	var (
		title   string
		slug    string
		repoURL string
		pypiURL string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a package to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if title == "" || repoURL == "" {
				return fmt.Errorf("--title and --repo-url are required")
			}
			if slug == "" {
				slug = slugify(title)
			}

			a, err := buildApp(ctx, *cfgPath, logger)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			p := &store.Package{
				Title:   title,
				Slug:    slug,
				RepoURL: repoURL,
				PyPIURL: pypiURL,
			}
			if err := a.catalog.CreatePackage(ctx, p); err != nil {
				return fmt.Errorf("creating package: %w", err)
			}

			logger.Info("package added", "slug", p.Slug, "id", p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "package title")
	cmd.Flags().StringVar(&slug, "slug", "", "package slug (defaults to slugified title)")
	cmd.Flags().StringVar(&repoURL, "repo-url", "", "repository URL")
	cmd.Flags().StringVar(&pypiURL, "pypi-url", "", "package index URL")
	return cmd
}

// slugify lowercases and replaces runs of non-alphanumerics with hyphens.
func slugify(s string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
