// Package editor holds the live editing session for one open report:
// task and planning mutations, debounced autosave, and the preview/
// dispatch state machine.
package editor

import (
	"context"
	"sync"
	"time"

	"report-desk/internal/logger"
	"report-desk/internal/model"
	"report-desk/internal/report"
)

// Saver is the storage boundary the session autosaves through.
type Saver interface {
	Upsert(ctx context.Context, r *report.Report) error
}

// Clipboard is the system clipboard boundary used on dispatch.
type Clipboard interface {
	WriteHTML(html string) error
}

// Session owns the single open report aggregate. All mutations go
// through it; edits are applied optimistically in memory and persisted
// by a debounced autosave, so a failed save never rolls back local
// state — it only raises the not-saved flag.
type Session struct {
	mu    sync.Mutex
	user  model.User
	rep   *report.Report
	state State

	saver Saver
	clip  Clipboard
	deb   *Debouncer

	saving   bool
	notSaved bool

	now func() time.Time
}

func NewSession(user model.User, rep *report.Report, saver Saver, clip Clipboard, autosave time.Duration) *Session {
	s := &Session{
		user:  user,
		rep:   rep,
		state: StateEditing,
		saver: saver,
		clip:  clip,
		now:   time.Now,
	}
	s.deb = NewDebouncer(autosave, s.save)
	return s
}

func (s *Session) employee() report.Employee {
	return report.Employee{Name: s.user.Name, EmployeeID: s.user.EmployeeID, TeamName: s.user.TeamName}
}

// mutate runs fn under the lock, drops back to editing state, and
// schedules an autosave.
func (s *Session) mutate(fn func(r *report.Report)) {
	s.mu.Lock()
	fn(s.rep)
	s.state = StateEditing
	s.saving = true
	s.mu.Unlock()
	s.deb.Trigger()
}

func (s *Session) StartTask(seed report.Seed) (task report.Task) {
	s.mutate(func(r *report.Report) {
		task = *r.StartTask(seed, s.employee(), s.now())
	})
	return task
}

func (s *Session) StopTask(id string) {
	s.mutate(func(r *report.Report) { r.StopTask(id, s.now()) })
}

func (s *Session) EditTask(id, field, value string) {
	s.mutate(func(r *report.Report) { r.EditTaskField(id, field, value) })
}

func (s *Session) RemoveTask(id string) {
	s.mutate(func(r *report.Report) { r.RemoveTask(id) })
}

func (s *Session) ImportTask(src report.Task) (task report.Task) {
	s.mutate(func(r *report.Report) { task = *r.ImportTask(src) })
	return task
}

func (s *Session) AddPlanning() (entry report.PlanningEntry) {
	s.mutate(func(r *report.Report) { entry = *r.AddPlanning() })
	return entry
}

func (s *Session) EditPlanning(id, field, value string) {
	s.mutate(func(r *report.Report) { r.EditPlanning(id, field, value) })
}

func (s *Session) RemovePlanning(id string) {
	s.mutate(func(r *report.Report) { r.RemovePlanning(id) })
}

// SetMeta updates the free-text sections and theme settings.
func (s *Session) SetMeta(req model.EditorMetaRequest) {
	s.mutate(func(r *report.Report) {
		if req.PreText != nil {
			r.PreText = *req.PreText
		}
		if req.PostText != nil {
			r.PostText = *req.PostText
		}
		if req.ThemeColor != nil {
			r.ThemeColor = *req.ThemeColor
		}
		if req.IsPlainTheme != nil {
			r.IsPlainTheme = *req.IsPlainTheme
		}
	})
}

// Snapshot returns a deep copy of the open report.
func (s *Session) Snapshot() *report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rep.Clone()
}

// Status reports the session state plus the autosave condition.
type Status struct {
	State    State `json:"state"`
	Saving   bool  `json:"saving"`
	NotSaved bool  `json:"notSaved"`
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, Saving: s.saving, NotSaved: s.notSaved}
}

// save is fired by the debouncer once the quiet window elapses.
func (s *Session) save() {
	s.mu.Lock()
	snap := s.rep.Clone()
	s.mu.Unlock()

	err := s.saver.Upsert(context.Background(), snap)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		// Optimistic UI: keep in-memory edits, surface the condition.
		s.notSaved = true
		logger.Warn("report.autosave_failed", "report_id", snap.ID, "err", err)
	} else {
		s.notSaved = false
		if s.rep.ID == "" {
			s.rep.ID = snap.ID
		}
	}
	s.mu.Unlock()
}

// Close cancels the pending autosave timer and writes the final state
// through synchronously.
func (s *Session) Close(ctx context.Context) error {
	s.deb.Cancel()
	s.mu.Lock()
	snap := s.rep.Clone()
	s.mu.Unlock()

	err := s.saver.Upsert(ctx, snap)

	s.mu.Lock()
	s.saving = false
	s.notSaved = err != nil
	if err == nil && s.rep.ID == "" {
		s.rep.ID = snap.ID
	}
	s.mu.Unlock()
	return err
}
