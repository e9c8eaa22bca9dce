package store

import (
	"strings"
	"time"
)

// Package is a cataloged open-source package. Repository stats and registry
// fields are denormalized onto the package row; Version and Commit rows hang
// off it and are deleted with it.
type Package struct {
	ID                 string     `bson:"_id" json:"id"`
	Title              string     `bson:"title" json:"title"`
	Slug               string     `bson:"slug" json:"slug"`
	CategoryID         string     `bson:"category_id,omitempty" json:"category_id,omitempty"`
	RepoDescription    string     `bson:"repo_description" json:"repo_description"`
	RepoURL            string     `bson:"repo_url" json:"repo_url"`
	RepoWatchers       int        `bson:"repo_watchers" json:"repo_watchers"`
	RepoForks          int        `bson:"repo_forks" json:"repo_forks"`
	PyPIURL            string     `bson:"pypi_url" json:"pypi_url"`
	PyPIDownloads      int        `bson:"pypi_downloads" json:"pypi_downloads"`
	PyPIClassifiers    []string   `bson:"pypi_classifiers,omitempty" json:"pypi_classifiers,omitempty"`
	PyPILicense        string     `bson:"pypi_license,omitempty" json:"pypi_license,omitempty"`
	PyPIRequiresPython string     `bson:"pypi_requires_python,omitempty" json:"pypi_requires_python,omitempty"`
	SupportsPython3    *bool      `bson:"supports_python3,omitempty" json:"supports_python3,omitempty"`
	Participants       string     `bson:"participants" json:"participants"`
	DocumentationURL   string     `bson:"documentation_url,omitempty" json:"documentation_url,omitempty"`
	Score              int        `bson:"score" json:"score"`
	DateDeprecated     *time.Time `bson:"date_deprecated,omitempty" json:"date_deprecated,omitempty"`
	DeprecatesPackage  string     `bson:"deprecates_package,omitempty" json:"deprecates_package,omitempty"`
	LastFetched        *time.Time `bson:"last_fetched,omitempty" json:"last_fetched,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// IsDeprecated reports whether the package has been marked deprecated.
func (p *Package) IsDeprecated() bool { return p.DateDeprecated != nil }

// ParticipantList splits the comma-separated participants field.
func (p *Package) ParticipantList() []string {
	if strings.TrimSpace(p.Participants) == "" {
		return nil
	}
	parts := strings.Split(p.Participants, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// pypiHosts are URL prefixes accepted in the PyPIURL field.
var pypiHosts = []string{
	"http://pypi.python.org/pypi/",
	"https://pypi.python.org/pypi/",
	"https://pypi.org/project/",
	"https://pypi.org/pypi/",
}

// PyPIName resolves the registry project name from the PyPIURL field.
// A bare name is returned as-is; known registry URL prefixes are stripped.
// Returns "" when the field is empty or the residue still looks like a URL
// for some other host.
func (p *Package) PyPIName() string {
	name := strings.TrimSpace(p.PyPIURL)
	if name == "" {
		return ""
	}
	for _, host := range pypiHosts {
		name = strings.TrimPrefix(name, host)
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return ""
	}
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[:i]
	}
	return name
}

// Version is a single release of a package as reported by the registry.
// (PackageID, Number) is unique.
type Version struct {
	ID                string     `bson:"_id" json:"id"`
	PackageID         string     `bson:"package_id" json:"package_id"`
	Number            string     `bson:"number" json:"number"`
	Downloads         int        `bson:"downloads" json:"downloads"`
	License           string     `bson:"license" json:"license"`
	Licenses          []string   `bson:"licenses,omitempty" json:"licenses,omitempty"`
	Hidden            bool       `bson:"hidden" json:"hidden"`
	UploadTime        *time.Time `bson:"upload_time,omitempty" json:"upload_time,omitempty"`
	DevelopmentStatus Status     `bson:"development_status" json:"development_status"`
	SupportsPython3   bool       `bson:"supports_python3" json:"supports_python3"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
}

// PrettyLicense strips the word "License" from the canonical license string.
func (v *Version) PrettyLicense() string {
	s := strings.ReplaceAll(v.License, "License", "")
	s = strings.ReplaceAll(s, "license", "")
	return strings.TrimSpace(s)
}

// Commit is a single source-control commit attributed to a package.
// Hash is optional; where present, (PackageID, Hash) is unique.
type Commit struct {
	ID         string    `bson:"_id" json:"id"`
	PackageID  string    `bson:"package_id" json:"package_id"`
	CommitDate time.Time `bson:"commit_date" json:"commit_date"`
	Hash       string    `bson:"commit_hash,omitempty" json:"commit_hash,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Category groups packages for presentation.
type Category struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description" json:"description"`
	TitlePlural string    `bson:"title_plural" json:"title_plural"`
	ShowPyPI    bool      `bson:"show_pypi" json:"show_pypi"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
