package handler

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"dinio/internal/auth"
	"dinio/internal/database"
	"dinio/internal/model"
	"dinio/internal/service"
	"dinio/internal/util"
)

type ZoneHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	zones      *service.ZoneService
	billing    *service.BillingService
	tmpl       *template.Template
}

func NewZoneHandler(db *database.DB, sm *auth.SessionManager, zones *service.ZoneService, billing *service.BillingService, tmpl *template.Template) *ZoneHandler {
	return &ZoneHandler{db: db, sessionMgr: sm, zones: zones, billing: billing, tmpl: tmpl}
}

// List renders the zone overview: the user's zones newest-first with their
// paid-until dates, plus the package catalog for the buy dialog.
func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user, err := h.db.GetUserByID(userID)
	if err != nil || user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	zones, err := h.zones.ListZones(userID)
	if err != nil {
		http.Error(w, "Failed to load zones: "+err.Error(), http.StatusInternalServerError)
		return
	}
	packages, err := h.billing.ListPackages("")
	if err != nil {
		http.Error(w, "Failed to load packages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.tmpl.ExecuteTemplate(w, "zones.html", map[string]interface{}{
		"Title":     "My Zones",
		"Username":  user.Username,
		"IsAdmin":   user.Admin,
		"CSRFToken": csrfToken,
		"Zones":     zones,
		"Packages":  packages,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	_ = r.ParseForm()
	name := r.FormValue("zone_name")

	zoneID, err := h.zones.CreateZone(userID, name)
	if err != nil {
		redirectFlash(w, r, "/zones", flashMessage(err))
		return
	}

	h.audit(userID, model.AuditEntry{
		Action:    "zone_create",
		ZoneID:    zoneID,
		Detail:    name,
		IPAddress: util.GetClientIP(r),
	})
	redirectFlash(w, r, "/zones", "Zone created")
}

func (h *ZoneHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	_ = r.ParseForm()
	zoneID, _ := strconv.ParseInt(r.FormValue("zone_id"), 10, 64)
	name := r.FormValue("zone_name")

	if err := h.zones.RenameZone(userID, zoneID, name); err != nil {
		redirectFlash(w, r, "/zones", flashMessage(err))
		return
	}

	h.audit(userID, model.AuditEntry{
		Action:    "zone_rename",
		ZoneID:    zoneID,
		Detail:    name,
		IPAddress: util.GetClientIP(r),
	})
	redirectFlash(w, r, "/zones", "Zone renamed")
}

func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	_ = r.ParseForm()
	zoneID, _ := strconv.ParseInt(r.FormValue("zone_id"), 10, 64)

	// Resolve the name before the rows are gone, for the audit trail.
	zone, _ := h.db.GetZoneForUser(zoneID, userID)

	if err := h.zones.DeleteZone(userID, zoneID); err != nil {
		redirectFlash(w, r, "/zones", flashMessage(err))
		return
	}

	detail := ""
	if zone != nil {
		detail = zone.Name
	}
	h.audit(userID, model.AuditEntry{
		Action:    "zone_delete",
		Detail:    detail,
		IPAddress: util.GetClientIP(r),
	})
	redirectFlash(w, r, "/zones", "Zone deleted")
}

func (h *ZoneHandler) audit(userID int64, entry model.AuditEntry) {
	user, _ := h.db.GetUserByID(userID)
	entry.Username = usernameOf(user)
	_ = h.db.LogAudit(entry)
}

func redirectFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}
