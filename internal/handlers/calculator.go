package handlers

import (
	"net/http"

	"supplierhub/internal/calculator"
)

// CalculatorHandler handles GET /api/calculator?amount=. It is public.
func CalculatorHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, calculator.Estimate(r.URL.Query().Get("amount")))
}
