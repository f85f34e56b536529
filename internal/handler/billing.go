package handler

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"dinio/internal/auth"
	"dinio/internal/database"
	"dinio/internal/model"
	"dinio/internal/service"
	"dinio/internal/util"
)

type BillingHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	billing    *service.BillingService
	paypal     *service.PayPalClient
	tmpl       *template.Template
}

func NewBillingHandler(db *database.DB, sm *auth.SessionManager, billing *service.BillingService, paypal *service.PayPalClient, tmpl *template.Template) *BillingHandler {
	return &BillingHandler{db: db, sessionMgr: sm, billing: billing, paypal: paypal, tmpl: tmpl}
}

func (h *BillingHandler) PackagesPage(w http.ResponseWriter, r *http.Request) {
	userID, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user, _ := h.db.GetUserByID(userID)

	packages, err := h.billing.ListPackages("")
	if err != nil {
		http.Error(w, "Failed to load packages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.tmpl.ExecuteTemplate(w, "packages.html", map[string]interface{}{
		"Title":          "Packages",
		"Username":       usernameOf(user),
		"IsAdmin":        user != nil && user.Admin,
		"CSRFToken":      csrfToken,
		"Packages":       packages,
		"ZoneID":         r.URL.Query().Get("zone"),
		"PayPalClientID": h.paypal.ClientID(),
		"Flash":          r.URL.Query().Get("msg"),
	})
}

// CreateOrder opens a PayPal checkout order. Called by the buy dialog's
// JavaScript before the approval popup; the response carries the order id
// the PayPal SDK needs.
func (h *BillingHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	order, err := h.paypal.CreateOrder(r.Context(), req.Amount)
	if err != nil {
		log.Printf("paypal create order: %v", err)
		writeJSONError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": order.ID})
}

// CompleteOrder captures an approved PayPal order and books the package
// onto the zone. The buyer is taken from the session, never the payload.
func (h *BillingHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)

	var req struct {
		OrderID   string  `json:"orderID"`
		PackageID int64   `json:"packageId"`
		ZoneID    int64   `json:"zoneId"`
		Amount    float64 `json:"amount"`
		Period    string  `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	capture, err := h.paypal.CaptureOrder(r.Context(), req.OrderID)
	if err != nil {
		log.Printf("paypal capture %s: %v", req.OrderID, err)
		writeJSONError(w, http.StatusBadGateway, "payment capture failed")
		return
	}
	if capture.Status != "COMPLETED" {
		writeJSONError(w, http.StatusPaymentRequired, "payment not completed: "+capture.Status)
		return
	}

	validUntil, err := h.billing.CompleteOrder(service.CompleteOrderInput{
		UserID:    userID,
		PackageID: req.PackageID,
		ZoneID:    req.ZoneID,
		Amount:    req.Amount,
		Period:    req.Period,
	})
	if err != nil {
		log.Printf("complete order %s: %v", req.OrderID, err)
		writeJSONError(w, http.StatusBadRequest, flashMessage(err))
		return
	}

	user, _ := h.db.GetUserByID(userID)
	_ = h.db.LogAudit(model.AuditEntry{
		Username:  usernameOf(user),
		Action:    "order_complete",
		ZoneID:    req.ZoneID,
		Detail:    req.OrderID,
		IPAddress: util.GetClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"validUntil": validUntil.Format("2006-01-02"),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
