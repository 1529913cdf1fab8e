package editor

import (
	"errors"
	"testing"
	"time"

	"report-desk/internal/model"
	"report-desk/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	html string
	err  error
}

func (f *fakeClipboard) WriteHTML(html string) error {
	if f.err != nil {
		return f.err
	}
	f.html = html
	return nil
}

func dispatchSession(user model.User, clip Clipboard) *Session {
	rep := report.New(user.ID, "2026-03-03", report.Employee{Name: user.Name, EmployeeID: user.EmployeeID, TeamName: user.TeamName})
	rep.ID = "rep-1"
	return NewSession(user, rep, &fakeStore{}, clip, time.Hour)
}

func TestPreviewDoesNotMutate(t *testing.T) {
	s := dispatchSession(bob, nil)
	before := s.Snapshot()

	html := s.Preview()

	assert.NotEmpty(t, html)
	assert.Equal(t, StatePreviewing, s.Status().State)
	assert.Equal(t, before, s.Snapshot())

	// preview and dispatch share the renderer, so the preview matches
	// the dispatched payload byte for byte
	d, err := s.DispatchMail()
	require.NoError(t, err)
	assert.Equal(t, html, d.HTML)
}

func TestDispatchRefusedWithoutRecipient(t *testing.T) {
	noTo := bob
	noTo.DefaultTo = "   "
	s := dispatchSession(noTo, nil)
	s.Preview()

	d, err := s.DispatchMail()
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Equal(t, StatePreviewing, s.Status().State)
}

func TestDispatchSuccess(t *testing.T) {
	user := bob
	user.DefaultTo = "boss@example.com; lead@example.com"
	user.DefaultCc = "team@example.com"
	clip := &fakeClipboard{}
	s := dispatchSession(user, clip)
	s.Preview()

	d, err := s.DispatchMail()
	require.NoError(t, err)

	assert.Equal(t, StateDispatched, s.Status().State)
	assert.Equal(t, "Daily Work Report - 2026-03-03 (Bob)", d.Subject)
	assert.True(t, d.Copied)
	assert.Equal(t, d.HTML, clip.html)

	assert.Contains(t, d.MailtoURL, "mailto:boss%40example.com%3B%20lead%40example.com")
	assert.Contains(t, d.MailtoURL, "subject=Daily%20Work%20Report%20-%202026-03-03%20%28Bob%29")
	assert.Contains(t, d.MailtoURL, "cc=team%40example.com")
	assert.NotContains(t, d.MailtoURL, "+")
}

func TestDispatchRequiresPreview(t *testing.T) {
	s := dispatchSession(bob, nil)

	d, err := s.DispatchMail()
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNotPreviewed)
	assert.Equal(t, StateEditing, s.Status().State)

	// any edit drops the session back to editing, so a stale preview
	// never carries a dispatch
	s.Preview()
	s.AddPlanning()
	d, err = s.DispatchMail()
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNotPreviewed)

	s.Preview()
	_, err = s.DispatchMail()
	assert.NoError(t, err)
}

func TestDispatchWithoutCC(t *testing.T) {
	user := bob
	user.DefaultCc = ""
	s := dispatchSession(user, nil)
	s.Preview()

	d, err := s.DispatchMail()
	require.NoError(t, err)
	assert.NotContains(t, d.MailtoURL, "cc=")
	assert.False(t, d.Copied)
}

func TestDispatchClipboardFailure(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	s := dispatchSession(bob, clip)
	s.Preview()

	d, err := s.DispatchMail()
	assert.Nil(t, d)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRecipient)
	// failed copy leaves the flow where it was
	assert.Equal(t, StatePreviewing, s.Status().State)
}
