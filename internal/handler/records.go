package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"dinio/internal/auth"
	"dinio/internal/database"
	"dinio/internal/dns"
	"dinio/internal/model"
	"dinio/internal/service"
	"dinio/internal/util"
)

type RecordHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	zones      *service.ZoneService
	tmpl       *template.Template
}

func NewRecordHandler(db *database.DB, sm *auth.SessionManager, zones *service.ZoneService, tmpl *template.Template) *RecordHandler {
	return &RecordHandler{db: db, sessionMgr: sm, zones: zones, tmpl: tmpl}
}

// recordView decorates a record with display fields for the zone page.
type recordView struct {
	model.Record
	TypeName   string
	Forwarding *model.Forwarding
}

// ZonePage renders the zone detail page with all records, the forwarding
// rules riding on them, and the nameserver pair form.
func (h *RecordHandler) ZonePage(w http.ResponseWriter, r *http.Request) {
	userID, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	zoneID, _ := strconv.ParseInt(r.PathValue("zoneID"), 10, 64)

	zone, records, forwarding, err := h.zones.ZoneDetail(userID, zoneID)
	if err != nil {
		redirectFlash(w, r, "/zones", flashMessage(err))
		return
	}

	views := make([]recordView, 0, len(records))
	var nsRecords []recordView
	for _, rec := range records {
		v := recordView{Record: rec, TypeName: dns.CodeToName(rec.Type)}
		if fwd, ok := forwarding[rec.ID]; ok {
			f := fwd
			v.Forwarding = &f
		}
		views = append(views, v)
		if rec.Type == dns.TypeNS {
			nsRecords = append(nsRecords, v)
		}
	}

	user, _ := h.db.GetUserByID(userID)
	h.tmpl.ExecuteTemplate(w, "zone.html", map[string]interface{}{
		"Title":     zone.Name,
		"Username":  usernameOf(user),
		"IsAdmin":   user != nil && user.Admin,
		"CSRFToken": csrfToken,
		"Zone":      zone,
		"Records":   views,
		"NSRecords": nsRecords,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	zoneID, _ := strconv.ParseInt(r.PathValue("zoneID"), 10, 64)
	zonePath := fmt.Sprintf("/zones/%d", zoneID)

	_ = r.ParseForm()
	rtype, _ := strconv.ParseUint(r.FormValue("type"), 10, 16)
	ttlHours, _ := strconv.ParseInt(r.FormValue("ttl"), 10, 64)
	priority, _ := strconv.Atoi(r.FormValue("priority"))

	in := service.RecordInput{
		Name:     r.FormValue("name"),
		Type:     uint16(rtype),
		Value:    r.FormValue("data"),
		TTLHours: ttlHours,
		Priority: priority,
	}
	if in.Type == dns.TypeSOA {
		in.MName = r.FormValue("mname")
		in.RName = r.FormValue("rname")
		in.Serial, _ = strconv.ParseInt(r.FormValue("serial"), 10, 64)
		in.Refresh, _ = strconv.ParseInt(r.FormValue("refresh"), 10, 64)
		in.Retry, _ = strconv.ParseInt(r.FormValue("retry"), 10, 64)
		in.Expire, _ = strconv.ParseInt(r.FormValue("expire"), 10, 64)
		in.Minimum, _ = strconv.ParseInt(r.FormValue("minimum"), 10, 64)
		// SOA assembles its data from the seven fields, but the
		// presence check runs on the generic field.
		if in.Value == "" {
			in.Value = in.MName
		}
	}

	rec, err := h.zones.CreateRecord(userID, zoneID, in)
	if err != nil {
		redirectFlash(w, r, zonePath, flashMessage(err))
		return
	}

	h.audit(userID, model.AuditEntry{
		Action:     "record_create",
		ZoneID:     zoneID,
		RecordName: rec.Name,
		RecordType: dns.CodeToName(rec.Type),
		Detail:     rec.Data,
		IPAddress:  util.GetClientIP(r),
	})
	redirectFlash(w, r, zonePath, "Record created")
}

func (h *RecordHandler) EditRecord(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	zoneID, _ := strconv.ParseInt(r.PathValue("zoneID"), 10, 64)
	zonePath := fmt.Sprintf("/zones/%d", zoneID)

	_ = r.ParseForm()
	recordID, _ := strconv.ParseInt(r.FormValue("record_id"), 10, 64)
	rtype, _ := strconv.ParseUint(r.FormValue("type"), 10, 16)
	ttl, _ := strconv.ParseInt(r.FormValue("ttl"), 10, 64)

	in := service.RecordUpdate{
		Name: r.FormValue("name"),
		Type: uint16(rtype),
		Data: r.FormValue("data"),
		TTL:  ttl,
	}
	if err := h.zones.UpdateRecord(userID, zoneID, recordID, in); err != nil {
		redirectFlash(w, r, zonePath, flashMessage(err))
		return
	}

	h.audit(userID, model.AuditEntry{
		Action:     "record_edit",
		ZoneID:     zoneID,
		RecordName: in.Name,
		RecordType: dns.CodeToName(in.Type),
		Detail:     in.Data,
		IPAddress:  util.GetClientIP(r),
	})
	redirectFlash(w, r, zonePath, "Record updated")
}

func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	zoneID, _ := strconv.ParseInt(r.PathValue("zoneID"), 10, 64)
	zonePath := fmt.Sprintf("/zones/%d", zoneID)

	_ = r.ParseForm()
	recordID, _ := strconv.ParseInt(r.FormValue("record_id"), 10, 64)

	rec, _ := h.db.GetRecord(zoneID, recordID)

	if err := h.zones.DeleteRecord(userID, zoneID, recordID); err != nil {
		redirectFlash(w, r, zonePath, flashMessage(err))
		return
	}

	entry := model.AuditEntry{
		Action:    "record_delete",
		ZoneID:    zoneID,
		IPAddress: util.GetClientIP(r),
	}
	if rec != nil {
		entry.RecordName = rec.Name
		entry.RecordType = dns.CodeToName(rec.Type)
		entry.Detail = rec.Data
	}
	h.audit(userID, entry)
	redirectFlash(w, r, zonePath, "Record deleted")
}

func (h *RecordHandler) CreateForwarding(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	zoneID, _ := strconv.ParseInt(r.PathValue("zoneID"), 10, 64)
	zonePath := fmt.Sprintf("/zones/%d", zoneID)

	_ = r.ParseForm()
	in := service.ForwardingInput{
		Subdomain:   r.FormValue("subdomain"),
		TargetURL:   r.FormValue("target_url"),
		Protocol:    r.FormValue("protocol"),
		ForwardType: r.FormValue("redirect_type"),
	}

	rec, err := h.zones.CreateForwarding(userID, zoneID, in)
	if err != nil {
		redirectFlash(w, r, zonePath, flashMessage(err))
		return
	}

	h.audit(userID, model.AuditEntry{
		Action:     "forwarding_create",
		ZoneID:     zoneID,
		RecordName: rec.Name,
		RecordType: dns.CodeToName(rec.Type),
		Detail:     rec.Data,
		IPAddress:  util.GetClientIP(r),
	})
	redirectFlash(w, r, zonePath, "Forwarding created")
}

func (h *RecordHandler) UpdateNameservers(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)
	zoneID, _ := strconv.ParseInt(r.PathValue("zoneID"), 10, 64)
	zonePath := fmt.Sprintf("/zones/%d", zoneID)

	_ = r.ParseForm()
	primaryID, _ := strconv.ParseInt(r.FormValue("primary_id"), 10, 64)
	secondaryID, _ := strconv.ParseInt(r.FormValue("secondary_id"), 10, 64)
	primaryNS := r.FormValue("primary_ns")
	secondaryNS := r.FormValue("secondary_ns")

	if err := h.zones.UpdateNameservers(userID, zoneID, primaryID, secondaryID, primaryNS, secondaryNS); err != nil {
		redirectFlash(w, r, zonePath, flashMessage(err))
		return
	}

	h.audit(userID, model.AuditEntry{
		Action:    "nameservers_update",
		ZoneID:    zoneID,
		Detail:    primaryNS + ", " + secondaryNS,
		IPAddress: util.GetClientIP(r),
	})
	redirectFlash(w, r, zonePath, "Nameservers updated")
}

func (h *RecordHandler) audit(userID int64, entry model.AuditEntry) {
	user, _ := h.db.GetUserByID(userID)
	entry.Username = usernameOf(user)
	_ = h.db.LogAudit(entry)
}
