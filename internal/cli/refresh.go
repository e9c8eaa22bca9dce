package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/pkg/metadata"
	"github.com/pkgscout/pkgscout/pkg/store"
)

func newRefreshCmd(cfgPath *string) *cobra.Command {
	var (
		all          bool
		registryOnly bool
		repoOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "refresh [slug...]",
		Short: "Refresh package metadata from the index and repository host",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if !all && len(args) == 0 {
				return fmt.Errorf("pass package slugs or --all")
			}
			if registryOnly && repoOnly {
				return fmt.Errorf("--registry-only and --repo-only are mutually exclusive")
			}

			opts := metadata.RefreshAll()
			if registryOnly {
				opts = metadata.Options{Registry: true}
			}
			if repoOnly {
				opts = metadata.Options{Repo: true}
			}

			a, err := buildApp(ctx, *cfgPath, logger)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			packages, err := selectPackages(ctx, a, all, args)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			refreshed := 0
			for i := range packages {
				p := &packages[i]
				result, err := a.aggregator.Refresh(ctx, p, opts)
				if err != nil {
					logger.Error("refresh failed", "slug", p.Slug, "err", err)
					continue
				}
				if err := a.catalog.SavePackage(ctx, p); err != nil {
					logger.Error("save failed", "slug", p.Slug, "err", err)
					continue
				}
				logger.Info("refreshed",
					"slug", p.Slug,
					"registry", result.Registry,
					"repo", result.Repo,
					"commits", result.CommitsCreated,
					"score", p.Score)
				refreshed++
			}
			prog.done(fmt.Sprintf("Refreshed %d of %d packages", refreshed, len(packages)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "refresh every package in the catalog")
	cmd.Flags().BoolVar(&registryOnly, "registry-only", false, "only fetch package index metadata")
	cmd.Flags().BoolVar(&repoOnly, "repo-only", false, "only fetch repository metadata and commits")
	return cmd
}

func selectPackages(ctx context.Context, a *app, all bool, slugs []string) ([]store.Package, error) {
	if all {
		return a.store.ListPackages(ctx)
	}
	packages := make([]store.Package, 0, len(slugs))
	for _, slug := range slugs {
		p, err := a.catalog.PackageBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", slug, err)
		}
		packages = append(packages, *p)
	}
	return packages, nil
}
