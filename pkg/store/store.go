// Package store defines the persistent model for cataloged packages and the
// Store port the rest of the system reads and writes through.
//
// Two backends are provided: an in-memory store used by tests and the
// standalone CLI, and a MongoDB store for deployments. Both enforce the same
// uniqueness rules: package slug and repository URL are unique, a version is
// unique per (package, number), and a commit is unique per (package, hash)
// when a hash is present.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested row does not exist, or when a
	// child row references a package that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate")
)

// Store is the persistence port for packages and their child rows.
//
// Writes to Version and Commit rows do not invalidate derived-value caches
// themselves; the metadata.Catalog wrapper owns that contract. Implementations
// only guarantee per-row write atomicity, so concurrent refreshes of the same
// package race with last-write-wins semantics.
type Store interface {
	CreatePackage(ctx context.Context, p *Package) error
	PackageByID(ctx context.Context, id string) (*Package, error)
	PackageBySlug(ctx context.Context, slug string) (*Package, error)
	PackageByRepoURL(ctx context.Context, repoURL string) (*Package, error)
	SavePackage(ctx context.Context, p *Package) error
	// DeletePackage removes a package and cascades to its versions and commits.
	DeletePackage(ctx context.Context, id string) error
	ListPackages(ctx context.Context) ([]Package, error)
	PackagesByCategory(ctx context.Context, categoryID string) ([]Package, error)

	// UpsertVersion creates the version row for (v.PackageID, v.Number) or
	// updates it in place. Returns ErrNotFound if the package does not exist;
	// that is a hard failure, not a partial-refresh condition.
	UpsertVersion(ctx context.Context, v *Version) (created bool, err error)
	Versions(ctx context.Context, packageID string) ([]Version, error)
	VersionNumbers(ctx context.Context, packageID string) ([]string, error)
	// LatestReleasedVersion returns the version with the greatest non-nil
	// upload time, or ErrNotFound when no version has one.
	LatestReleasedVersion(ctx context.Context, packageID string) (*Version, error)

	// InsertCommit inserts a commit row. When c.Hash is non-empty and a row
	// with the same (package, hash) already exists, the insert is a no-op and
	// created is false.
	InsertCommit(ctx context.Context, c *Commit) (created bool, err error)
	// Commits returns all commits for a package, newest first.
	Commits(ctx context.Context, packageID string) ([]Commit, error)
	// CommitsSince returns commits dated after since, newest first.
	CommitsSince(ctx context.Context, packageID string, since time.Time) ([]Commit, error)
	// LatestCommitDate returns the greatest commit date, or nil when the
	// package has no commits.
	LatestCommitDate(ctx context.Context, packageID string) (*time.Time, error)

	CreateCategory(ctx context.Context, c *Category) error
	CategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)

	Close(ctx context.Context) error
}
