package handlers

import (
	"errors"
	"net/http"

	"supplierhub/db"
	"supplierhub/internal/paywall"

	"go.uber.org/zap"
)

// GetFactoriesHandler searches the catalog. Factories the caller has not
// unlocked come back masked.
func (h *Handler) GetFactoriesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r, 24, 100)
	query := r.URL.Query()

	factories, err := h.Store.ListFactories(r.Context(), db.FactoryFilter{
		Query:      query.Get("q"),
		Segment:    query.Get("segment"),
		City:       query.Get("city"),
		Province:   query.Get("province"),
		CategoryID: query.Get("category"),
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		h.Log.Error("list factories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get factories")
		return
	}

	access, err := h.Paywall.Access(r.Context(), currentUser(r).ID)
	if err != nil {
		h.Log.Error("paywall access", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to check subscription")
		return
	}

	out := make([]paywall.CatalogFactory, 0, len(factories))
	for _, f := range factories {
		out = append(out, paywall.Mask(f, access.Unlocked(f.ID)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetFactoryHandler(w http.ResponseWriter, r *http.Request) {
	f, err := h.Store.GetFactory(r.Context(), pathID(r, "factoryId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Factory not found")
		return
	}
	if err != nil {
		h.Log.Error("load factory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get factory")
		return
	}

	unlocked, err := h.Paywall.Unlocked(r.Context(), currentUser(r).ID, f.ID)
	if err != nil {
		h.Log.Error("paywall check", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to check subscription")
		return
	}
	writeJSON(w, http.StatusOK, paywall.Mask(*f, unlocked))
}

// UnlockFactoryHandler spends one credit to reveal a factory. Without
// credits it answers 402.
func (h *Handler) UnlockFactoryHandler(w http.ResponseWriter, r *http.Request) {
	f, err := h.Store.GetFactory(r.Context(), pathID(r, "factoryId"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Factory not found")
		return
	}
	if err != nil {
		h.Log.Error("load factory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to unlock factory")
		return
	}

	if err := h.Paywall.Unlock(r.Context(), currentUser(r).ID, f.ID); err != nil {
		if errors.Is(err, paywall.ErrNoCredits) {
			writeError(w, http.StatusPaymentRequired, err.Error())
			return
		}
		h.Log.Error("unlock factory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to unlock factory")
		return
	}
	writeJSON(w, http.StatusOK, paywall.Mask(*f, true))
}

func (h *Handler) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		h.Log.Error("list categories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
