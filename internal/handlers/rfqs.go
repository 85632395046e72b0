package handlers

import (
	"errors"
	"net/http"
	"strings"

	"supplierhub/db"
	"supplierhub/models"

	"go.uber.org/zap"
)

type createRFQRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Deadline    string  `json:"deadline" validate:"required"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft sent"`
	CategoryID  *string `json:"categoryId" validate:"omitempty,uuid"`
}

type updateRFQRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gt=0"`
	Deadline    *string `json:"deadline"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string `json:"status"`
	CategoryID  *string `json:"categoryId" validate:"omitempty,uuid"`
}

type rfqView struct {
	models.RFQ
	Band models.Deadline `json:"deadlineBand"`
}

type rfqDetail struct {
	rfqView
	Attachments []models.RFQAttachment `json:"attachments"`
	QuoteCount  int                    `json:"quoteCount"`
}

func (h *Handler) viewRFQ(r models.RFQ) rfqView {
	return rfqView{RFQ: r, Band: models.DeadlineBand(r.Deadline, h.now())}
}

// loadRFQ fetches the caller's RFQ named in the path and writes the error
// response itself when that fails.
func (h *Handler) loadRFQ(w http.ResponseWriter, r *http.Request) (*models.RFQ, bool) {
	rfq, err := h.Store.GetRFQ(r.Context(), currentUser(r).ID, pathID(r, "rfqId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "RFQ not found")
		return nil, false
	}
	if err != nil {
		h.Log.Error("load rfq", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load RFQ")
		return nil, false
	}
	return rfq, true
}

// CreateRFQHandler handles POST /api/rfqs. New RFQs are drafts unless the
// caller explicitly creates them as sent.
func (h *Handler) CreateRFQHandler(w http.ResponseWriter, r *http.Request) {
	var req createRFQRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rfq := models.RFQ{
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		Deadline:    deadline,
		Priority:    req.Priority,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
		OwnerID:     currentUser(r).ID,
	}
	if rfq.Priority == "" {
		rfq.Priority = models.PriorityMedium
	}
	if rfq.Status == "" {
		rfq.Status = models.RFQStatusDraft
	}

	if err := h.Store.CreateRFQ(r.Context(), &rfq); err != nil {
		h.Log.Error("create rfq", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create RFQ")
		return
	}
	writeJSON(w, http.StatusCreated, h.viewRFQ(rfq))
}

// GetRFQsHandler lists the caller's RFQs, newest first.
func (h *Handler) GetRFQsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r, 20, 100)

	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidRFQStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	rfqs, err := h.Store.ListRFQs(r.Context(), db.RFQFilter{
		OwnerID: currentUser(r).ID,
		Status:  status,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		h.Log.Error("list rfqs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get RFQs")
		return
	}

	views := make([]rfqView, 0, len(rfqs))
	for _, rfq := range rfqs {
		views = append(views, h.viewRFQ(rfq))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetRFQHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}

	attachments, err := h.Store.ListAttachments(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("list attachments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load attachments")
		return
	}
	count, err := h.Store.CountQuotes(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("count quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to count quotes")
		return
	}

	writeJSON(w, http.StatusOK, rfqDetail{
		rfqView:     h.viewRFQ(*rfq),
		Attachments: attachments,
		QuoteCount:  count,
	})
}

// UpdateRFQHandler merges the given fields into the RFQ. Status may only
// move forward.
func (h *Handler) UpdateRFQHandler(w http.ResponseWriter, r *http.Request) {
	var req updateRFQRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeError(w, http.StatusBadRequest, "'title': this field is required")
			return
		}
		rfq.Title = *req.Title
	}
	if req.Description != nil {
		rfq.Description = *req.Description
	}
	if req.Quantity != nil {
		rfq.Quantity = *req.Quantity
	}
	if req.Deadline != nil {
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rfq.Deadline = deadline
	}
	if req.Priority != nil {
		rfq.Priority = *req.Priority
	}
	if req.CategoryID != nil {
		rfq.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		if err := models.CanAdvance(rfq.Status, *req.Status); err != nil {
			writeTransitionError(w, err)
			return
		}
		rfq.Status = *req.Status
	}

	if err := h.Store.UpdateRFQ(r.Context(), rfq); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "RFQ not found")
			return
		}
		h.Log.Error("update rfq", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update RFQ")
		return
	}
	writeJSON(w, http.StatusOK, h.viewRFQ(*rfq))
}

// DeleteRFQHandler removes the RFQ with its child rows, then the attachment
// files. File cleanup failures are only logged.
func (h *Handler) DeleteRFQHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}

	attachments, err := h.Store.ListAttachments(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("list attachments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete RFQ")
		return
	}

	if err := h.Store.DeleteRFQ(r.Context(), rfq.OwnerID, rfq.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "RFQ not found")
			return
		}
		h.Log.Error("delete rfq", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete RFQ")
		return
	}

	for _, a := range attachments {
		h.removeFile(r, a.ObjectKey)
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeTransitionError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
