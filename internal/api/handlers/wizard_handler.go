package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/services"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

const (
	maxSubmitBytes  = 8 << 20
	multipartMemory = 2 << 20
)

type WizardHandler struct {
	sessions services.SessionService
	drafts   services.DraftService
	log      *logrus.Entry
}

func NewWizardHandler(sessions services.SessionService, drafts services.DraftService, l logrus.FieldLogger) *WizardHandler {
	return &WizardHandler{sessions: sessions, drafts: drafts, log: logger.Component(l, "wizard_handler")}
}

// page returns the caller's wizard page, opening it on first use.
func (h *WizardHandler) page(c *gin.Context) (*wizard.Page, string, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return nil, "", false
	}
	token, ok := requireToken(c)
	if !ok {
		return nil, "", false
	}

	p, err := h.sessions.Open(c.Request.Context(), userID, token)
	if err != nil {
		writeError(c, err)
		return nil, "", false
	}
	return p, userID, true
}

func (h *WizardHandler) snapshot(c *gin.Context, p *wizard.Page, status int) {
	s, err := p.Snapshot()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, s)
}

func (h *WizardHandler) Snapshot(c *gin.Context) {
	p, _, ok := h.page(c)
	if !ok {
		return
	}
	h.snapshot(c, p, http.StatusOK)
}

// Activate switches sections. The personal data form is always open, so
// its draft is restored as soon as the section is shown.
func (h *WizardHandler) Activate(c *gin.Context) {
	p, userID, ok := h.page(c)
	if !ok {
		return
	}
	section := c.Param("section")
	if err := p.Activate(section); err != nil {
		writeError(c, err)
		return
	}
	if section == wizard.SectionPersonalData {
		h.restoreDraft(c, p, userID, section)
	}
	h.snapshot(c, p, http.StatusOK)
}

func (h *WizardHandler) Add(c *gin.Context) {
	p, userID, ok := h.page(c)
	if !ok {
		return
	}
	if err := p.Add(c.Param("section")); err != nil {
		writeError(c, err)
		return
	}
	h.restoreDraft(c, p, userID, c.Param("section"))
	h.snapshot(c, p, http.StatusOK)
}

func (h *WizardHandler) Edit(c *gin.Context) {
	p, userID, ok := h.page(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "WizardHandler.Edit")
	if !ok {
		return
	}
	if err := p.Edit(c.Param("section"), id); err != nil {
		writeError(c, err)
		return
	}
	h.restoreDraft(c, p, userID, c.Param("section"))
	h.snapshot(c, p, http.StatusOK)
}

// restoreDraft prefills the form just opened with the candidate's saved
// draft, if any. A missing or unreadable draft leaves the form as it is.
func (h *WizardHandler) restoreDraft(c *gin.Context, p *wizard.Page, userID, section string) {
	s, err := p.Snapshot()
	if err != nil {
		return
	}
	key := s.Sections[section].EntityKey()

	d, err := h.drafts.Get(c.Request.Context(), userID, section, key)
	if err != nil {
		if !utils.IsCode(err, utils.CodeNotFound) {
			h.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "section": section}).Warn("draft not loaded")
		}
		return
	}
	if err := p.Restore(section, json.RawMessage(d.Input)); err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "section": section, "entity": key}).Warn("draft not restored")
	}
}

func (h *WizardHandler) Back(c *gin.Context) {
	p, _, ok := h.page(c)
	if !ok {
		return
	}
	if err := p.Back(c.Request.Context(), c.Param("section")); err != nil && !keptInState(err) {
		writeError(c, err)
		return
	}
	h.snapshot(c, p, http.StatusOK)
}

func (h *WizardHandler) Refresh(c *gin.Context) {
	p, _, ok := h.page(c)
	if !ok {
		return
	}
	if err := p.Refresh(c.Request.Context(), c.Param("section")); err != nil && !keptInState(err) {
		writeError(c, err)
		return
	}
	h.snapshot(c, p, http.StatusOK)
}

// keptInState reports a load failure the page already shows in the list
// state, as opposed to a request the page refused.
func keptInState(err error) bool {
	switch utils.CodeOf(err) {
	case utils.CodeNotFound, utils.CodeCanceled, utils.CodeConflict:
		return false
	}
	return true
}

// Submit accepts the form input as a JSON body, or as a multipart body with
// the JSON in the "input" field and files under their form field names.
func (h *WizardHandler) Submit(c *gin.Context) {
	const op = "WizardHandler.Submit"

	p, userID, ok := h.page(c)
	if !ok {
		return
	}
	section := c.Param("section")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmitBytes)

	var raw json.RawMessage
	var files map[string]*models.Attachment
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid multipart body", err))
			return
		}
		if v := form.Value["input"]; len(v) > 0 {
			raw = json.RawMessage(v[0])
		}
		if files, err = readAttachments(form, op); err != nil {
			writeError(c, err)
			return
		}
	} else {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
			return
		}
		raw = b
	}

	// the draft belongs to whatever the form edits before it closes
	draftKey := wizard.NewEntityKey
	if s, err := p.Snapshot(); err == nil {
		draftKey = s.Sections[section].EntityKey()
	}

	if err := p.Submit(c.Request.Context(), section, raw, files); err != nil {
		writeError(c, err)
		return
	}

	if err := h.drafts.Discard(c.Request.Context(), userID, section, draftKey); err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "section": section}).Warn("draft not discarded")
	}
	h.snapshot(c, p, http.StatusOK)
}

type DeleteResponse struct {
	Deleted bool             `json:"deleted"`
	Prompt  string           `json:"prompt,omitempty"`
	Wizard  *wizard.Snapshot `json:"wizard,omitempty"`
}

// Delete asks for confirmation first: without ?confirm=true nothing is sent
// upstream and the reply carries the prompt to show.
func (h *WizardHandler) Delete(c *gin.Context) {
	p, _, ok := h.page(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "WizardHandler.Delete")
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	var prompt string
	deleted, err := p.Delete(c.Request.Context(), c.Param("section"), id, func(msg string) bool {
		prompt = msg
		return confirmed
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := DeleteResponse{Deleted: deleted}
	if !deleted {
		resp.Prompt = prompt
	}
	if s, err := p.Snapshot(); err == nil {
		resp.Wizard = &s
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WizardHandler) CheckCompleteness(c *gin.Context) {
	p, _, ok := h.page(c)
	if !ok {
		return
	}
	if err := p.CheckCompleteness(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	h.snapshot(c, p, http.StatusOK)
}

type GenerateResponse struct {
	Started bool            `json:"started"`
	Wizard  wizard.Snapshot `json:"wizard"`
}

// GenerateCV replies 409 while the profile is incomplete.
func (h *WizardHandler) GenerateCV(c *gin.Context) {
	p, _, ok := h.page(c)
	if !ok {
		return
	}
	started, err := p.GenerateCV(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	s, err := p.Snapshot()
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if !started {
		status = http.StatusConflict
	}
	c.JSON(status, GenerateResponse{Started: started, Wizard: s})
}

// End closes the caller's page.
func (h *WizardHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": h.sessions.End(userID)})
}
