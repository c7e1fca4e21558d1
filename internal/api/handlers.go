package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/susu3304/wageflow/internal/db"
)

const maxPaymentsLimit = 100

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: failed to write response: %v", err)
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (a *API) handleCompany(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	company, err := a.store.CompanyByID(r.Context(), claims.CompanyID)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to get company", http.StatusInternalServerError)
		return
	}
	writeJSON(w, company)
}

func (a *API) handleEmployees(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	employees, err := a.store.ActiveEmployees(r.Context(), claims.CompanyID)
	if err != nil {
		http.Error(w, "failed to get employees", http.StatusInternalServerError)
		return
	}
	if employees == nil {
		employees = []db.Employee{}
	}
	writeJSON(w, employees)
}

func (a *API) handlePayments(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxPaymentsLimit)
	}

	payments, err := a.store.RecentPayments(r.Context(), claims.CompanyID, limit)
	if err != nil {
		http.Error(w, "failed to get payments", http.StatusInternalServerError)
		return
	}
	if payments == nil {
		payments = []db.PaymentRecord{}
	}
	writeJSON(w, payments)
}
