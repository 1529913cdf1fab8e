package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"report-desk/internal/model"
	"report-desk/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	auth := NewAuthService(db)
	u, err := auth.Signup(context.Background(), model.SignupRequest{
		Name: "Alice", EmployeeID: "E-101", TeamName: "Platform",
		Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func newReportFor(u *model.User, date string) *report.Report {
	return report.New(u.ID, date, report.Employee{Name: u.Name, EmployeeID: u.EmployeeID, TeamName: u.TeamName})
}

func TestUpsertInsertAndUpdate(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)
	u := seedUser(t, db, "alice@example.com")
	ctx := context.Background()

	r := newReportFor(u, "2026-03-02")
	r.Tasks = report.TaskList{{ID: "t1", ProjectName: "API", StartTime: "09:00", EndTime: "10:00", WorkingHours: "1.00"}}
	require.NoError(t, store.Upsert(ctx, r))
	require.NotEmpty(t, r.ID)
	created := r.CreatedAt

	// update keeps the id and the original creation timestamp
	r.Tasks[0].Remarks = "edited"
	r.CreatedAt = 42 // a tampered value must not survive
	require.NoError(t, store.Upsert(ctx, r))

	got, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "edited", got.Tasks[0].Remarks)
	assert.Equal(t, "API", got.Tasks[0].ProjectName)
}

func TestUpsertStaleID(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)
	u := seedUser(t, db, "alice@example.com")

	r := newReportFor(u, "2026-03-02")
	r.ID = "gone"
	assert.ErrorIs(t, store.Upsert(context.Background(), r), ErrNotFound)
}

func TestUpsertRequiresUser(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)

	r := report.New("", "2026-03-02", report.Employee{})
	assert.ErrorIs(t, store.Upsert(context.Background(), r), ErrInvalidInput)
}

func TestCreationCap(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)
	u := seedUser(t, db, "alice@example.com")
	other := seedUser(t, db, "bob@example.com")
	ctx := context.Background()

	for i := 0; i < MaxReportsPerUser-1; i++ {
		r := newReportFor(u, fmt.Sprintf("2026-01-%02d", i%28+1))
		require.NoError(t, store.Upsert(ctx, r))
	}

	// creation at 29 succeeds and produces the 30th
	thirtieth := newReportFor(u, "2026-02-01")
	require.NoError(t, store.Upsert(ctx, thirtieth))

	// the 31st is refused with the specific capacity condition
	refused := newReportFor(u, "2026-02-02")
	err := store.Upsert(ctx, refused)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Empty(t, refused.ID)

	// the cap never blocks updates to an existing report
	thirtieth.PreText = "still editable"
	require.NoError(t, store.Upsert(ctx, thirtieth))

	// and it is per user
	require.NoError(t, store.Upsert(ctx, newReportFor(other, "2026-02-02")))
}

func TestDuplicateDatesAllowed(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)
	u := seedUser(t, db, "alice@example.com")
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, newReportFor(u, "2026-03-02")))
	require.NoError(t, store.Upsert(ctx, newReportFor(u, "2026-03-02")))

	reports, err := store.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestListNewestFirst(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)
	u := seedUser(t, db, "alice@example.com")
	ctx := context.Background()

	old := newReportFor(u, "2026-03-01")
	old.CreatedAt = 1000
	mid := newReportFor(u, "2026-03-02")
	mid.CreatedAt = 2000
	newest := newReportFor(u, "2026-03-03")
	newest.CreatedAt = 3000
	for _, r := range []*report.Report{mid, newest, old} {
		require.NoError(t, store.Upsert(ctx, r))
	}

	reports, err := store.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "2026-03-03", reports[0].Date)
	assert.Equal(t, "2026-03-02", reports[1].Date)
	assert.Equal(t, "2026-03-01", reports[2].Date)
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	store := NewReportStore(db)
	u := seedUser(t, db, "alice@example.com")
	ctx := context.Background()

	r := newReportFor(u, "2026-03-02")
	require.NoError(t, store.Upsert(ctx, r))
	require.NoError(t, store.Delete(ctx, r.ID))

	_, err := store.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, r.ID), ErrNotFound)
}
