package editor

import (
	"fmt"
	"net/url"
	"strings"

	"report-desk/internal/render"
)

// State is the explicit dispatch-flow state of a session.
type State int

const (
	StateEditing State = iota
	StatePreviewing
	StateDispatched
)

func (s State) String() string {
	switch s {
	case StatePreviewing:
		return "previewing"
	case StateDispatched:
		return "dispatched"
	default:
		return "editing"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ErrNoRecipient refuses dispatch while no "To" recipient is set.
var ErrNoRecipient = fmt.Errorf("no recipient configured")

// ErrNotPreviewed refuses dispatch before the document has been
// previewed. Editing never transitions straight to dispatched.
var ErrNotPreviewed = fmt.Errorf("report has not been previewed")

// PasteGuide is the one-time instruction shown after dispatch: the
// compose window cannot be filled with rich HTML directly, so the user
// pastes the copied table by hand.
const PasteGuide = "Report copied to clipboard. Paste it into the email body (Ctrl+V) before sending."

// Dispatch is the prepared hand-off to the mail client. Nothing here
// sends mail; the human completes delivery.
type Dispatch struct {
	Subject   string
	MailtoURL string
	HTML      string
	Copied    bool
}

// Preview renders the document without changing any data and moves the
// session to the previewing state.
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StatePreviewing
	return render.Document(s.rep)
}

// DispatchMail renders the full document, copies it onto the system
// clipboard, and builds the mail-compose link. It is refused while the
// session has not been previewed, or while the user has no default
// "To" recipient; refusal leaves the session previewing.
func (s *Session) DispatchMail() (*Dispatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePreviewing {
		return nil, ErrNotPreviewed
	}

	to := strings.TrimSpace(s.user.DefaultTo)
	if to == "" {
		s.state = StatePreviewing
		return nil, ErrNoRecipient
	}

	html := render.Document(s.rep)

	copied := false
	if s.clip != nil {
		if err := s.clip.WriteHTML(html); err != nil {
			return nil, fmt.Errorf("clipboard: %w", err)
		}
		copied = true
	}

	subject := fmt.Sprintf("Daily Work Report - %s (%s)", s.rep.Date, s.user.Name)
	mailto := "mailto:" + encodeMailto(to) + "?subject=" + encodeMailto(subject)
	if cc := strings.TrimSpace(s.user.DefaultCc); cc != "" {
		mailto += "&cc=" + encodeMailto(cc)
	}

	s.state = StateDispatched
	return &Dispatch{Subject: subject, MailtoURL: mailto, HTML: html, Copied: copied}, nil
}

// encodeMailto percent-encodes a mailto component, with spaces as %20
// rather than "+".
func encodeMailto(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
