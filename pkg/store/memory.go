package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and the standalone CLI.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	packages   map[string]Package
	versions   map[string]Version
	commits    map[string]Commit
	categories map[string]Category
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		packages:   make(map[string]Package),
		versions:   make(map[string]Version),
		commits:    make(map[string]Commit),
		categories: make(map[string]Category),
	}
}

func (s *MemoryStore) CreatePackage(ctx context.Context, p *Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.packages {
		if existing.Slug == p.Slug {
			return fmt.Errorf("%w: slug %q", ErrDuplicate, p.Slug)
		}
		if p.RepoURL != "" && existing.RepoURL == p.RepoURL {
			return fmt.Errorf("%w: repo_url %q", ErrDuplicate, p.RepoURL)
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.packages[p.ID] = *p
	return nil
}

func (s *MemoryStore) PackageByID(ctx context.Context, id string) (*Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packages[id]
	if !ok {
		return nil, fmt.Errorf("%w: package %s", ErrNotFound, id)
	}
	return &p, nil
}

func (s *MemoryStore) PackageBySlug(ctx context.Context, slug string) (*Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.packages {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: package slug %q", ErrNotFound, slug)
}

func (s *MemoryStore) PackageByRepoURL(ctx context.Context, repoURL string) (*Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := strings.TrimSuffix(repoURL, "/")
	for _, p := range s.packages {
		if strings.TrimSuffix(p.RepoURL, "/") == want {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: package repo %q", ErrNotFound, repoURL)
}

func (s *MemoryStore) SavePackage(ctx context.Context, p *Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		return fmt.Errorf("%w: package has no id", ErrNotFound)
	}
	if _, ok := s.packages[p.ID]; !ok {
		return fmt.Errorf("%w: package %s", ErrNotFound, p.ID)
	}
	p.UpdatedAt = time.Now()
	s.packages[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeletePackage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packages[id]; !ok {
		return fmt.Errorf("%w: package %s", ErrNotFound, id)
	}
	delete(s.packages, id)
	for vid, v := range s.versions {
		if v.PackageID == id {
			delete(s.versions, vid)
		}
	}
	for cid, c := range s.commits {
		if c.PackageID == id {
			delete(s.commits, cid)
		}
	}
	return nil
}

func (s *MemoryStore) ListPackages(ctx context.Context) ([]Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Package, 0, len(s.packages))
	for _, p := range s.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) PackagesByCategory(ctx context.Context, categoryID string) ([]Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Package
	for _, p := range s.packages {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RepoWatchers != out[j].RepoWatchers {
			return out[i].RepoWatchers > out[j].RepoWatchers
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *MemoryStore) UpsertVersion(ctx context.Context, v *Version) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packages[v.PackageID]; !ok {
		return false, fmt.Errorf("%w: package %s", ErrNotFound, v.PackageID)
	}

	for id, existing := range s.versions {
		if existing.PackageID == v.PackageID && existing.Number == v.Number {
			v.ID = id
			if v.CreatedAt.IsZero() {
				v.CreatedAt = existing.CreatedAt
			}
			s.versions[id] = *v
			return false, nil
		}
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.versions[v.ID] = *v
	return true, nil
}

func (s *MemoryStore) Versions(ctx context.Context, packageID string) ([]Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Version
	for _, v := range s.versions {
		if v.PackageID == packageID {
			out = append(out, v)
		}
	}
	// Newest upload first, nil upload times last.
	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].UploadTime, out[j].UploadTime
		switch {
		case vi == nil && vj == nil:
			return out[i].Number < out[j].Number
		case vi == nil:
			return false
		case vj == nil:
			return true
		default:
			return vi.After(*vj)
		}
	})
	return out, nil
}

func (s *MemoryStore) VersionNumbers(ctx context.Context, packageID string) ([]string, error) {
	vs, err := s.Versions(ctx, packageID)
	if err != nil {
		return nil, err
	}
	numbers := make([]string, len(vs))
	for i, v := range vs {
		numbers[i] = v.Number
	}
	return numbers, nil
}

func (s *MemoryStore) LatestReleasedVersion(ctx context.Context, packageID string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *Version
	for _, v := range s.versions {
		if v.PackageID != packageID || v.UploadTime == nil {
			continue
		}
		v := v
		if latest == nil || v.UploadTime.After(*latest.UploadTime) {
			latest = &v
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: no released version for package %s", ErrNotFound, packageID)
	}
	return latest, nil
}

func (s *MemoryStore) InsertCommit(ctx context.Context, c *Commit) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packages[c.PackageID]; !ok {
		return false, fmt.Errorf("%w: package %s", ErrNotFound, c.PackageID)
	}

	if c.Hash != "" {
		for _, existing := range s.commits {
			if existing.PackageID == c.PackageID && existing.Hash == c.Hash {
				return false, nil
			}
		}
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.commits[c.ID] = *c
	return true, nil
}

func (s *MemoryStore) Commits(ctx context.Context, packageID string) ([]Commit, error) {
	return s.CommitsSince(ctx, packageID, time.Time{})
}

func (s *MemoryStore) CommitsSince(ctx context.Context, packageID string, since time.Time) ([]Commit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Commit
	for _, c := range s.commits {
		if c.PackageID == packageID && c.CommitDate.After(since) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommitDate.After(out[j].CommitDate) })
	return out, nil
}

func (s *MemoryStore) LatestCommitDate(ctx context.Context, packageID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *time.Time
	for _, c := range s.commits {
		if c.PackageID != packageID {
			continue
		}
		d := c.CommitDate
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest, nil
}

func (s *MemoryStore) CreateCategory(ctx context.Context, c *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Slug == c.Slug {
			return fmt.Errorf("%w: category slug %q", ErrDuplicate, c.Slug)
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *MemoryStore) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: category slug %q", ErrNotFound, slug)
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
