package handlers

import (
	"errors"
	"net/http"

	"supplierhub/db"
	"supplierhub/internal/quotes"
	"supplierhub/models"

	"go.uber.org/zap"
)

type createQuoteRequest struct {
	FactoryID    string  `json:"factoryId" validate:"required,uuid"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,oneof=USD EUR CNY GBP HKD"`
	LeadTimeDays int     `json:"leadTimeDays" validate:"required,gt=0"`
	MOQUnits     int     `json:"moqUnits" validate:"required,gt=0"`
	Description  string  `json:"description" validate:"max=5000"`
	Terms        *string `json:"terms" validate:"omitempty,max=5000"`
}

// CreateQuoteHandler records a factory's quote as pending. Duplicate quotes
// from one factory are allowed. The RFQ moves to quoted if it is behind.
func (h *Handler) CreateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
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
	if _, err := h.Store.GetFactory(r.Context(), req.FactoryID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Unknown factory")
			return
		}
		h.Log.Error("load factory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	q := models.RFQQuote{
		RFQID:        rfq.ID,
		FactoryID:    req.FactoryID,
		Price:        req.Price,
		Currency:     req.Currency,
		LeadTimeDays: req.LeadTimeDays,
		MOQUnits:     req.MOQUnits,
		Description:  req.Description,
		Terms:        req.Terms,
		Status:       models.QuoteStatusPending,
	}
	if q.Currency == "" {
		q.Currency = "USD"
	}

	if err := h.Store.CreateQuote(r.Context(), &q); err != nil {
		h.Log.Error("create quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	if models.IsBehind(rfq.Status, models.RFQStatusQuoted) {
		if err := h.Store.SetRFQStatus(r.Context(), rfq.ID, models.RFQStatusQuoted); err != nil {
			h.Log.Error("advance rfq to quoted", zap.String("rfq_id", rfq.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) GetQuotesHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}
	list, err := h.Store.ListQuotes(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get quotes")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CompareQuotesHandler handles
// GET /api/rfqs/{rfqId}/quotes/compare?sort=price|lead_time|moq&order=asc|desc&status=pending|all
func (h *Handler) CompareQuotesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	opts := quotes.Options{SortBy: quotes.SortPrice}
	if s := query.Get("sort"); s != "" {
		if !quotes.ValidSortKey(s) {
			writeError(w, http.StatusBadRequest, "sort must be one of price, lead_time, moq")
			return
		}
		opts.SortBy = s
	}
	switch query.Get("order") {
	case "", "asc":
	case "desc":
		opts.Descending = true
	default:
		writeError(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}
	switch query.Get("status") {
	case "", "all":
	case models.QuoteStatusPending:
		opts.PendingOnly = true
	default:
		writeError(w, http.StatusBadRequest, "status must be pending or all")
		return
	}

	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}
	list, err := h.Store.ListQuotes(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compare quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes.Compare(list, opts))
}

type quoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// UpdateQuoteStatusHandler accepts or rejects a pending quote. Sibling quotes
// are left alone.
func (h *Handler) UpdateQuoteStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req quoteStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.Store.GetQuote(r.Context(), currentUser(r).ID, pathID(r, "quoteId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Quote not found")
		return
	}
	if err != nil {
		h.Log.Error("load quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	if err := models.CanDecideQuote(q.Status, req.Status); err != nil {
		writeTransitionError(w, err)
		return
	}
	if err := h.Store.DecideQuote(r.Context(), q.ID, req.Status); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("decide quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	q.Status = req.Status
	writeJSON(w, http.StatusOK, q)
}
