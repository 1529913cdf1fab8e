package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"report-desk/internal/editor"
	"report-desk/internal/logger"
	"report-desk/internal/model"
	"report-desk/internal/report"
	"report-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// EditorHandler keeps one live session per open report. A report is
// edited by a single session at a time; reopening returns the session
// already holding it.
type EditorHandler struct {
	store    *service.ReportStore
	auth     *service.AuthService
	parser   *service.TaskParser
	clip     editor.Clipboard
	autosave time.Duration

	sessions sync.Map // report id -> *editor.Session
	owners   sync.Map // report id -> user id
	parsing  sync.Map // user id + input -> in-flight marker
}

func NewEditorHandler(store *service.ReportStore, auth *service.AuthService, parser *service.TaskParser, clip editor.Clipboard, autosave time.Duration) *EditorHandler {
	return &EditorHandler{store: store, auth: auth, parser: parser, clip: clip, autosave: autosave}
}

type openRequest struct {
	ReportID string `json:"reportId"`
	Date     string `json:"date"`
}

// POST /api/editor/open opens an existing report for editing, or
// creates a fresh one for the given date (the creation cap applies
// here and nowhere else).
func (h *EditorHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.ReportID == "" && req.Date == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportId or date required"})
		return
	}

	uid := c.GetString("user_id")
	u, err := h.auth.GetUser(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	var rep *report.Report
	if req.ReportID != "" {
		if sess := h.session(c, req.ReportID); sess != nil {
			c.JSON(http.StatusOK, gin.H{"report": sess.Snapshot(), "status": sess.Status()})
			return
		}
		rep, err = h.store.Get(c.Request.Context(), req.ReportID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
			return
		}
		if rep.UserID != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	} else {
		if report.DayName(req.Date) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		rep = report.New(uid, req.Date, report.Employee{Name: u.Name, EmployeeID: u.EmployeeID, TeamName: u.TeamName})
		if err := h.store.Upsert(c.Request.Context(), rep); err != nil {
			if errors.Is(err, service.ErrLimitReached) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Storage Limit Reached. Max 30 reports allowed."})
				return
			}
			logger.Error("editor.create_failed", "uid", uid, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
			return
		}
	}

	sess := editor.NewSession(*u, rep, h.store, h.clip, h.autosave)
	h.sessions.Store(rep.ID, sess)
	h.owners.Store(rep.ID, uid)
	logger.Info("editor.opened", "report_id", rep.ID, "uid", uid, "date", rep.Date)
	c.JSON(http.StatusOK, gin.H{"report": sess.Snapshot(), "status": sess.Status()})
}

// GET /api/editor/:id
func (h *EditorHandler) Get(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": sess.Snapshot(), "status": sess.Status()})
}

// POST /api/editor/:id/tasks/start
func (h *EditorHandler) StartTask(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	var seed report.Seed
	if err := c.ShouldBindJSON(&seed); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	task := sess.StartTask(seed)
	c.JSON(http.StatusOK, task)
}

// POST /api/editor/:id/tasks/parse runs the free text through the
// parsing collaborator and starts the resulting task. Parsing failures
// degrade to a generic task; they never block creation.
func (h *EditorHandler) ParseTask(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	var req model.ParseTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// same input cannot be re-submitted while a parse is in flight
	key := c.GetString("user_id") + "\x00" + req.Text
	if _, busy := h.parsing.LoadOrStore(key, struct{}{}); busy {
		c.JSON(http.StatusConflict, gin.H{"error": "parse already in progress"})
		return
	}
	defer h.parsing.Delete(key)

	seed, fellBack := h.parser.Parse(c.Request.Context(), req.Text)
	task := sess.StartTask(seed)
	resp := gin.H{"task": task, "fallback": fellBack}
	if fellBack {
		resp["notice"] = "AI parsing unavailable. Added a generic task instead."
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/editor/:id/tasks/:taskId/stop
func (h *EditorHandler) StopTask(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	sess.StopTask(c.Param("taskId"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PUT /api/editor/:id/tasks/:taskId
func (h *EditorHandler) EditTask(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	var req model.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	sess.EditTask(c.Param("taskId"), req.Field, req.Value)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/editor/:id/tasks/:taskId
func (h *EditorHandler) RemoveTask(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	sess.RemoveTask(c.Param("taskId"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/editor/:id/history lists the user's other reports as import
// sources.
func (h *EditorHandler) History(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	reports, err := h.store.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	history := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if r.ID != c.Param("id") {
			history = append(history, r)
		}
	}
	c.JSON(http.StatusOK, history)
}

// POST /api/editor/:id/tasks/import copies one task from a historical
// report into the open one.
func (h *EditorHandler) ImportTask(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	var req model.ImportTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	src, err := h.store.Get(c.Request.Context(), req.FromReportID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if src.UserID != c.GetString("user_id") || src.ID == c.Param("id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	task := src.FindTask(req.TaskID)
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	imported := sess.ImportTask(*task)
	logger.Info("editor.task_imported", "report_id", c.Param("id"), "from", req.FromReportID, "project", imported.ProjectName)
	c.JSON(http.StatusOK, imported)
}

// POST /api/editor/:id/planning
func (h *EditorHandler) AddPlanning(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	c.JSON(http.StatusOK, sess.AddPlanning())
}

// PUT /api/editor/:id/planning/:entryId
func (h *EditorHandler) EditPlanning(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	var req model.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	sess.EditPlanning(c.Param("entryId"), req.Field, req.Value)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/editor/:id/planning/:entryId
func (h *EditorHandler) RemovePlanning(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	sess.RemovePlanning(c.Param("entryId"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PUT /api/editor/:id/meta
func (h *EditorHandler) SetMeta(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	var req model.EditorMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	sess.SetMeta(req)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/editor/:id/preview
func (h *EditorHandler) Preview(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sess.Preview()))
}

// POST /api/editor/:id/dispatch prepares the mail hand-off: clipboard
// copy plus compose link. Sending remains a manual step.
func (h *EditorHandler) Dispatch(c *gin.Context) {
	sess := h.session(c, c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}

	d, err := sess.DispatchMail()
	if err != nil {
		if errors.Is(err, editor.ErrNoRecipient) {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "No 'To' recipient configured. Update settings first."})
			return
		}
		if errors.Is(err, editor.ErrNotPreviewed) {
			c.JSON(http.StatusConflict, gin.H{"error": "Preview the report before dispatching."})
			return
		}
		logger.Warn("editor.dispatch_failed", "report_id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dispatch failed"})
		return
	}

	logger.Info("editor.dispatched", "report_id", c.Param("id"), "subject", d.Subject)
	c.JSON(http.StatusOK, model.DispatchResponse{
		State:     sess.Status().State.String(),
		Subject:   d.Subject,
		MailtoURL: d.MailtoURL,
		HTML:      d.HTML,
		Copied:    d.Copied,
		Notice:    editor.PasteGuide,
	})
}

// POST /api/editor/:id/close flushes the final state and drops the
// session.
func (h *EditorHandler) Close(c *gin.Context) {
	id := c.Param("id")
	sess := h.session(c, id)
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session"})
		return
	}
	if err := sess.Close(c.Request.Context()); err != nil {
		logger.Warn("editor.close_save_failed", "report_id", id, "err", err)
	}
	h.sessions.Delete(id)
	h.owners.Delete(id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// session returns the open session for the report, or nil when there
// is none or it belongs to another user.
func (h *EditorHandler) session(c *gin.Context, reportID string) *editor.Session {
	owner, ok := h.owners.Load(reportID)
	if !ok || owner.(string) != c.GetString("user_id") {
		return nil
	}
	v, ok := h.sessions.Load(reportID)
	if !ok {
		return nil
	}
	return v.(*editor.Session)
}
