package controller

import (
	"io"
	"log/slog"
	"net/http"

	"floodwatch/internal/metrics"
	"floodwatch/internal/modules/contact/repository"
	"floodwatch/internal/modules/contact/types"
	"floodwatch/internal/utils"
	"floodwatch/internal/views"
)

const (
	defaultMessagesLimit = 20
	maxMessagesLimit     = 200
)

type ContactController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type contactControllerImpl struct {
	repository repository.ContactRepository
}

func NewContactController(repository repository.ContactRepository) ContactController {
	return &contactControllerImpl{repository: repository}
}

func (c *contactControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /contact", c.handleContactPage)
	mux.HandleFunc("POST /submit_contact", c.handleSubmit)
	mux.HandleFunc("GET /api/v1/admin/messages", c.handleMessages)
}

// SubmitResponse is the /submit_contact body. ID is set on success, Message
// on failure.
type SubmitResponse struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (c *contactControllerImpl) handleContactPage(w http.ResponseWriter, r *http.Request) {
	page := views.Page{Title: "Contact", Active: "contact"}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "contact", page)
	}); err != nil {
		slog.Error("contact page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *contactControllerImpl) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub types.Submission
	if err := utils.DecodeJSON(w, r, &sub); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, SubmitResponse{Status: "error", Message: err.Error()})
		return
	}
	sub, err := sub.Normalize()
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, SubmitResponse{Status: "error", Message: err.Error()})
		return
	}

	m, err := c.repository.InsertMessage(r.Context(), sub)
	if err != nil {
		slog.Error("contact: store message failed", "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, SubmitResponse{Status: "error", Message: "failed to store message"})
		return
	}
	metrics.ContactMessagesTotal.Inc()
	slog.Info("contact message received", "id", m.ID, "subject", m.Subject)
	utils.WriteJSON(w, http.StatusCreated, SubmitResponse{Status: "success", ID: m.ID})
}

func (c *contactControllerImpl) handleMessages(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryInt(r, "limit", defaultMessagesLimit, 1, maxMessagesLimit)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	msgs, err := c.repository.GetRecentMessages(r.Context(), limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []types.Message{}
	}
	utils.WriteJSON(w, http.StatusOK, msgs)
}
