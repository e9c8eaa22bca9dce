// Package pkg provides the core libraries for the pkgscout package catalog.
//
// # Overview
//
// pkgscout tracks open-source packages across a package index and their
// source repositories, aggregates release and commit metadata, and ranks
// each package by activity and compatibility. The pkg directory is organized
// into these areas:
//
//  1. [store] - Persistence (packages, versions, commits, categories)
//  2. [metadata] - Aggregation core (catalog, refresh, scoring)
//  3. [pypi] / [repos] - External API clients (registry, GitHub, GitLab)
//  4. [fetch] / [cache] - HTTP plumbing and the derived-value cache
//  5. [versions] / [license] - Normalizers for version and license strings
//
// # Architecture
//
// The typical data flow through a refresh:
//
//	PyPI JSON API / Repository host API
//	         ↓
//	    [pypi] and [repos] clients (fetch release + commit data)
//	         ↓
//	    [metadata] aggregator (normalize, persist, invalidate)
//	         ↓
//	    [store] rows + recomputed score
//
// # Quick Start
//
// Wire a catalog and refresh a package:
//
//	st := store.NewMemoryStore()
//	catalog := metadata.NewCatalog(st, cache.NewMemoryCache(), nil)
//	registry := repos.DefaultRegistry(githubToken, "")
//	agg := metadata.NewAggregator(catalog, pypi.NewClient(), registry, nil, nil)
//
//	result, _ := agg.Refresh(ctx, pkg, metadata.RefreshAll())
//	_ = catalog.SavePackage(ctx, pkg)
//
// [store]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/store
// [metadata]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/metadata
// [pypi]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/pypi
// [repos]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/repos
// [fetch]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/fetch
// [cache]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/cache
// [versions]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/versions
// [license]: https://pkg.go.dev/github.com/pkgscout/pkgscout/pkg/license
package pkg
