package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the MongoDB-backed Store for deployments.
type MongoStore struct {
	client     *mongo.Client
	packages   *mongo.Collection
	versions   *mongo.Collection
	commits    *mongo.Collection
	categories *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures the unique indexes the model
// relies on (slug, repo_url, (package, number), (package, hash)).
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:     client,
		packages:   db.Collection("packages"),
		versions:   db.Collection("versions"),
		commits:    db.Collection("commits"),
		categories: db.Collection("categories"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	sparse := options.Index().SetUnique(true).SetSparse(true)

	_, err := s.packages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "repo_url", Value: 1}}, Options: sparse},
	})
	if err != nil {
		return fmt.Errorf("creating package indexes: %w", err)
	}

	_, err = s.versions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "package_id", Value: 1}, {Key: "number", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("creating version index: %w", err)
	}

	_, err = s.commits.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "package_id", Value: 1}, {Key: "commit_hash", Value: 1}}, Options: sparse},
		{Keys: bson.D{{Key: "package_id", Value: 1}, {Key: "commit_date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("creating commit indexes: %w", err)
	}

	_, err = s.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("creating category index: %w", err)
	}
	return nil
}

func (s *MongoStore) CreatePackage(ctx context.Context, p *Package) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if _, err := s.packages.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: package %q", ErrDuplicate, p.Slug)
		}
		return err
	}
	return nil
}

func (s *MongoStore) findPackage(ctx context.Context, filter bson.M) (*Package, error) {
	var p Package
	err := s.packages.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: package %v", ErrNotFound, filter)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) PackageByID(ctx context.Context, id string) (*Package, error) {
	return s.findPackage(ctx, bson.M{"_id": id})
}

func (s *MongoStore) PackageBySlug(ctx context.Context, slug string) (*Package, error) {
	return s.findPackage(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) PackageByRepoURL(ctx context.Context, repoURL string) (*Package, error) {
	// Stored URLs may or may not carry a trailing slash.
	trimmed := strings.TrimSuffix(repoURL, "/")
	return s.findPackage(ctx, bson.M{"repo_url": bson.M{"$in": bson.A{trimmed, trimmed + "/"}}})
}

func (s *MongoStore) SavePackage(ctx context.Context, p *Package) error {
	if p.ID == "" {
		return fmt.Errorf("%w: package has no id", ErrNotFound)
	}
	p.UpdatedAt = time.Now()
	res, err := s.packages.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: package %s", ErrNotFound, p.ID)
	}
	return nil
}

func (s *MongoStore) DeletePackage(ctx context.Context, id string) error {
	res, err := s.packages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: package %s", ErrNotFound, id)
	}
	if _, err := s.versions.DeleteMany(ctx, bson.M{"package_id": id}); err != nil {
		return err
	}
	_, err = s.commits.DeleteMany(ctx, bson.M{"package_id": id})
	return err
}

func (s *MongoStore) listPackages(ctx context.Context, filter bson.M) ([]Package, error) {
	cur, err := s.packages.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Package
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) ListPackages(ctx context.Context) ([]Package, error) {
	return s.listPackages(ctx, bson.M{})
}

func (s *MongoStore) PackagesByCategory(ctx context.Context, categoryID string) ([]Package, error) {
	cur, err := s.packages.Find(ctx, bson.M{"category_id": categoryID},
		options.Find().SetSort(bson.D{{Key: "repo_watchers", Value: -1}, {Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Package
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) UpsertVersion(ctx context.Context, v *Version) (bool, error) {
	if _, err := s.PackageByID(ctx, v.PackageID); err != nil {
		return false, err
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	update := bson.M{
		"$set": bson.M{
			"downloads":          v.Downloads,
			"license":            v.License,
			"licenses":           v.Licenses,
			"hidden":             v.Hidden,
			"upload_time":        v.UploadTime,
			"development_status": v.DevelopmentStatus,
			"supports_python3":   v.SupportsPython3,
		},
		"$setOnInsert": bson.M{
			"_id":        v.ID,
			"package_id": v.PackageID,
			"number":     v.Number,
			"created_at": v.CreatedAt,
		},
	}
	res, err := s.versions.UpdateOne(ctx,
		bson.M{"package_id": v.PackageID, "number": v.Number},
		update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (s *MongoStore) Versions(ctx context.Context, packageID string) ([]Version, error) {
	cur, err := s.versions.Find(ctx, bson.M{"package_id": packageID},
		options.Find().SetSort(bson.D{{Key: "upload_time", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []Version
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) VersionNumbers(ctx context.Context, packageID string) ([]string, error) {
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

func (s *MongoStore) LatestReleasedVersion(ctx context.Context, packageID string) (*Version, error) {
	var v Version
	err := s.versions.FindOne(ctx,
		bson.M{"package_id": packageID, "upload_time": bson.M{"$ne": nil}},
		options.FindOne().SetSort(bson.D{{Key: "upload_time", Value: -1}})).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no released version for package %s", ErrNotFound, packageID)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *MongoStore) InsertCommit(ctx context.Context, c *Commit) (bool, error) {
	if _, err := s.PackageByID(ctx, c.PackageID); err != nil {
		return false, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	if c.Hash == "" {
		_, err := s.commits.InsertOne(ctx, c)
		return err == nil, err
	}

	res, err := s.commits.UpdateOne(ctx,
		bson.M{"package_id": c.PackageID, "commit_hash": c.Hash},
		bson.M{"$setOnInsert": bson.M{
			"_id":         c.ID,
			"package_id":  c.PackageID,
			"commit_date": c.CommitDate,
			"commit_hash": c.Hash,
			"created_at":  c.CreatedAt,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (s *MongoStore) Commits(ctx context.Context, packageID string) ([]Commit, error) {
	return s.commitQuery(ctx, bson.M{"package_id": packageID})
}

func (s *MongoStore) CommitsSince(ctx context.Context, packageID string, since time.Time) ([]Commit, error) {
	return s.commitQuery(ctx, bson.M{"package_id": packageID, "commit_date": bson.M{"$gt": since}})
}

func (s *MongoStore) commitQuery(ctx context.Context, filter bson.M) ([]Commit, error) {
	cur, err := s.commits.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "commit_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []Commit
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) LatestCommitDate(ctx context.Context, packageID string) (*time.Time, error) {
	var c Commit
	err := s.commits.FindOne(ctx, bson.M{"package_id": packageID},
		options.FindOne().SetSort(bson.D{{Key: "commit_date", Value: -1}})).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := c.CommitDate
	return &d, nil
}

func (s *MongoStore) CreateCategory(ctx context.Context, c *Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if _, err := s.categories.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: category %q", ErrDuplicate, c.Slug)
		}
		return err
	}
	return nil
}

func (s *MongoStore) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := s.categories.FindOne(ctx, bson.M{"slug": slug}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: category slug %q", ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]Category, error) {
	cur, err := s.categories.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
