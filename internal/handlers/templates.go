package handlers

import (
	"errors"
	"net/http"

	"supplierhub/db"
	"supplierhub/internal/broadcast"
	"supplierhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type templateRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Body      string `json:"body" validate:"required,max=20000"`
	IsDefault bool   `json:"isDefault"`
}

func (h *Handler) GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListTemplates(r.Context(), currentUser(r).ID)
	if err != nil {
		h.Log.Error("list templates", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get templates")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateTemplateHandler stores a template. A new default first clears the
// owner's previous defaults.
func (h *Handler) CreateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := models.RFQEmailTemplate{
		OwnerID:   currentUser(r).ID,
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		IsDefault: req.IsDefault,
	}
	if t.IsDefault {
		if err := h.Store.ClearDefaultTemplates(r.Context(), t.OwnerID); err != nil {
			h.Log.Error("clear default templates", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to create template")
			return
		}
	}
	if err := h.Store.CreateTemplate(r.Context(), &t); err != nil {
		h.Log.Error("create template", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	owner := currentUser(r).ID
	t, err := h.Store.GetTemplate(r.Context(), owner, pathID(r, "templateId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		h.Log.Error("load template", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	t.Name, t.Subject, t.Body, t.IsDefault = req.Name, req.Subject, req.Body, req.IsDefault
	if t.IsDefault {
		if err := h.Store.ClearDefaultTemplates(r.Context(), owner); err != nil {
			h.Log.Error("clear default templates", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to update template")
			return
		}
	}
	if err := h.Store.UpdateTemplate(r.Context(), t); err != nil {
		h.Log.Error("update template", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTemplateHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteTemplate(r.Context(), currentUser(r).ID, pathID(r, "templateId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		h.Log.Error("delete template", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type previewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PreviewTemplateHandler renders a template against ?rfqId= or, without
// one, against a sample RFQ.
func (h *Handler) PreviewTemplateHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	t, err := h.Store.GetTemplate(r.Context(), user.ID, pathID(r, "templateId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		h.Log.Error("load template", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to preview template")
		return
	}

	rfq := &models.RFQ{
		Title:       "Sample RFQ",
		Quantity:    1000,
		Deadline:    h.now().AddDate(0, 0, 30),
		Description: "Product details go here.",
	}
	category := ""
	if id := r.URL.Query().Get("rfqId"); id != "" {
		if _, perr := uuid.Parse(id); perr != nil {
			writeError(w, http.StatusNotFound, "RFQ not found")
			return
		}
		rfq, err = h.Store.GetRFQ(r.Context(), user.ID, id)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "RFQ not found")
			return
		}
		if err != nil {
			h.Log.Error("load rfq", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to preview template")
			return
		}
		if rfq.CategoryID != nil {
			if c, err := h.Store.GetCategory(r.Context(), *rfq.CategoryID); err == nil {
				category = c.Name
			}
		}
	}

	vars := broadcast.NewVars(rfq, category,
		broadcast.Sender{OwnerID: user.ID, Name: user.Name, Company: user.Company},
		&models.Factory{NameEN: "Sample Factory"})

	writeJSON(w, http.StatusOK, previewResponse{
		Subject: broadcast.Render(t.Subject, vars),
		Body:    broadcast.Render(t.Body, vars),
	})
}
