package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"report-desk/internal/model"
	"report-desk/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	saves []*report.Report
	err   error
}

func (f *fakeStore) Upsert(ctx context.Context, r *report.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if r.ID == "" {
		r.ID = report.NewID()
	}
	f.saves = append(f.saves, r)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) last() *report.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

var bob = model.User{
	ID: "user-1", Name: "Bob", EmployeeID: "E-7", TeamName: "Infra",
	Email: "bob@example.com", DefaultTo: "boss@example.com",
}

func newTestSession(store Saver, autosave time.Duration) *Session {
	rep := report.New(bob.ID, "2026-03-03", report.Employee{Name: bob.Name, EmployeeID: bob.EmployeeID, TeamName: bob.TeamName})
	rep.ID = "rep-1"
	return NewSession(bob, rep, store, nil, autosave)
}

func TestDebouncedAutosaveCoalesces(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, 40*time.Millisecond)

	// five rapid edits inside the quiet window
	task := s.StartTask(report.Seed{ProjectName: "A"})
	s.EditTask(task.ID, "remarks", "one")
	s.EditTask(task.ID, "remarks", "two")
	s.EditTask(task.ID, "remarks", "three")
	s.EditTask(task.ID, "remarks", "final")

	assert.Equal(t, 0, store.count())
	assert.True(t, s.Status().Saving)

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)

	// exactly one save, holding the final state
	saved := store.last()
	require.Len(t, saved.Tasks, 1)
	assert.Equal(t, "final", saved.Tasks[0].Remarks)
	assert.False(t, s.Status().Saving)
	assert.False(t, s.Status().NotSaved)

	// quiet afterwards: no extra saves sneak in
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, store.count())
}

func TestAutosaveFailureKeepsLocalEdits(t *testing.T) {
	store := &fakeStore{err: context.DeadlineExceeded}
	s := newTestSession(store, 10*time.Millisecond)

	task := s.StartTask(report.Seed{ProjectName: "Risky"})
	require.Eventually(t, func() bool { return s.Status().NotSaved }, time.Second, 5*time.Millisecond)

	// in-memory edits survive the failed save
	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Risky", snap.Tasks[0].ProjectName)
	_ = task

	// a later successful save clears the flag
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	s.EditTask(snap.Tasks[0].ID, "remarks", "retry")
	require.Eventually(t, func() bool { return !s.Status().NotSaved }, time.Second, 5*time.Millisecond)
}

func TestMutationsReturnToEditingState(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, time.Hour)

	s.Preview()
	assert.Equal(t, StatePreviewing, s.Status().State)

	s.AddPlanning()
	assert.Equal(t, StateEditing, s.Status().State)
}

func TestSetMeta(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, time.Hour)

	pre := "Morning update:"
	plain := true
	s.SetMeta(model.EditorMetaRequest{PreText: &pre, IsPlainTheme: &plain})

	snap := s.Snapshot()
	assert.Equal(t, "Morning update:", snap.PreText)
	assert.True(t, snap.IsPlainTheme)
	// untouched fields keep their values
	assert.Equal(t, report.DefaultThemeColor, snap.ThemeColor)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, time.Hour)
	task := s.StartTask(report.Seed{ProjectName: "X"})

	snap := s.Snapshot()
	snap.Tasks[0].ProjectName = "mutated"

	assert.Equal(t, "X", s.Snapshot().Tasks[0].ProjectName)
	_ = task
}

func TestCloseFlushesFinalState(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, time.Hour) // debounce will never fire on its own

	task := s.StartTask(report.Seed{ProjectName: "Wrap up"})
	s.StopTask(task.ID)

	require.NoError(t, s.Close(context.Background()))
	require.Equal(t, 1, store.count())
	assert.Equal(t, "Wrap up", store.last().Tasks[0].ProjectName)
}
