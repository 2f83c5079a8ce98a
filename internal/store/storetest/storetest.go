// Package storetest provides an in-memory database for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jobboard/internal/store"
	"jobboard/pkg/models"
)

// New returns a migrated store backed by a private in-memory sqlite database
func New(t testing.TB) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := store.New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// Seeded holds the rows created by Seed
type Seeded struct {
	Category  models.JobCategory
	Pending   models.JobCategory
	Employer  models.Employer
	Employer2 models.Employer
	Seeker    models.JobSeeker
	Seeker2   models.JobSeeker
}

// Seed creates two employers, two seekers, an approved and an unapproved category
func Seed(t testing.TB, s *store.Store) Seeded {
	t.Helper()
	ctx := context.Background()

	var out Seeded
	out.Category = models.JobCategory{CategoryName: "Engineering", IsApproved: true}
	out.Pending = models.JobCategory{CategoryName: "Astrology"}
	require.NoError(t, s.CreateCategory(ctx, &out.Category))
	require.NoError(t, s.CreateCategory(ctx, &out.Pending))

	for i, e := range []*models.Employer{&out.Employer, &out.Employer2} {
		u := &models.User{Email: []string{"e1@x.com", "e2@x.com"}[i], UserName: "employer", PasswordHash: "x"}
		require.NoError(t, s.CreateUser(ctx, u))
		*e = models.Employer{UserID: u.ID, CompanyName: []string{"Acme", "Globex"}[i]}
		require.NoError(t, s.CreateEmployer(ctx, e))
	}
	for i, js := range []*models.JobSeeker{&out.Seeker, &out.Seeker2} {
		u := &models.User{Email: []string{"s1@x.com", "s2@x.com"}[i], UserName: "seeker", PasswordHash: "x"}
		require.NoError(t, s.CreateUser(ctx, u))
		*js = models.JobSeeker{UserID: u.ID, FullName: []string{"Ada", "Grace"}[i]}
		require.NoError(t, s.CreateJobSeeker(ctx, js))
	}
	return out
}
