package handlers

import (
	"errors"
	"net/http"

	"supplierhub/db"
	"supplierhub/internal/broadcast"
	"supplierhub/internal/paywall"
	"supplierhub/internal/selector"
	"supplierhub/models"

	"go.uber.org/zap"
)

type candidate struct {
	Factory  paywall.CatalogFactory `json:"factory"`
	Selected bool                   `json:"selected"`
}

type candidatesResponse struct {
	Items       []candidate `json:"items"`
	SelectedIDs []string    `json:"selectedIds"`
	Total       int         `json:"total"`
}

// GetCandidatesHandler returns the factories an RFQ can be sent to, in the
// RFQ's category unless ?category= overrides it. ?selected= preselects ids,
// ?all=true selects every loaded factory, ?q= filters the visible list.
func (h *Handler) GetCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	category := query.Get("category")
	if category == "" && rfq.CategoryID != nil {
		category = *rfq.CategoryID
	}

	factories, err := h.Store.ListFactories(r.Context(), db.FactoryFilter{CategoryID: category})
	if err != nil {
		h.Log.Error("list candidate factories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load factories")
		return
	}
	access, err := h.Paywall.Access(r.Context(), currentUser(r).ID)
	if err != nil {
		h.Log.Error("paywall access", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to check subscription")
		return
	}

	sel := selector.New(factories, splitList(query.Get("selected")))
	if query.Get("all") == "true" {
		sel.SelectAll()
	}

	visible := sel.Filter(query.Get("q"))
	items := make([]candidate, 0, len(visible))
	for _, it := range visible {
		items = append(items, candidate{
			Factory:  paywall.Mask(it.Factory, access.Unlocked(it.Factory.ID)),
			Selected: it.Selected,
		})
	}

	ids := sel.SelectedIDs()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, candidatesResponse{Items: items, SelectedIDs: ids, Total: len(factories)})
}

type sendRequest struct {
	FactoryIDs []string `json:"factoryIds" validate:"required,min=1,dive,uuid"`
	TemplateID string   `json:"templateId" validate:"omitempty,uuid"`
}

type sendResponse struct {
	RFQ     rfqView                 `json:"rfq"`
	Rows    []models.RFQSentFactory `json:"rows"`
	Summary broadcast.Summary       `json:"summary"`
}

// SendRFQHandler broadcasts the RFQ to the chosen factories.
func (h *Handler) SendRFQHandler(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(r)
	res, err := h.Broadcaster.Send(r.Context(), broadcast.Request{
		From:       broadcast.Sender{OwnerID: user.ID, Name: user.Name, Company: user.Company},
		RFQID:      pathID(r, "rfqId"),
		FactoryIDs: req.FactoryIDs,
		TemplateID: req.TemplateID,
	})
	switch {
	case errors.Is(err, broadcast.ErrRFQNotFound):
		writeError(w, http.StatusNotFound, "RFQ not found")
		return
	case errors.Is(err, broadcast.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "Template not found")
		return
	case errors.Is(err, broadcast.ErrNoFactories):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.Log.Error("broadcast rfq", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to send RFQ")
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{
		RFQ:     h.viewRFQ(*res.RFQ),
		Rows:    res.Rows,
		Summary: broadcast.Summarize(res.Rows),
	})
}

type sentResponse struct {
	Rows    []models.RFQSentFactory `json:"rows"`
	Summary broadcast.Summary       `json:"summary"`
}

func (h *Handler) GetSentHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}
	rows, err := h.Store.ListSentFactories(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("list sent factories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get send status")
		return
	}
	writeJSON(w, http.StatusOK, sentResponse{Rows: rows, Summary: broadcast.Summarize(rows)})
}

type sentStatusRequest struct {
	Status       string  `json:"status" validate:"required,oneof=sent delivered read error"`
	ErrorMessage *string `json:"errorMessage" validate:"omitempty,max=1000"`
}

// UpdateSentStatusHandler records a delivery callback for one send row.
func (h *Handler) UpdateSentStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req sentStatusRequest
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

	errMsg := req.ErrorMessage
	if req.Status != models.SendStatusError {
		errMsg = nil
	}
	err := h.Store.UpdateSentStatus(r.Context(), rfq.ID, pathID(r, "sentId"), req.Status, errMsg)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Send record not found")
		return
	}
	if err != nil {
		h.Log.Error("update send status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update send status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
