package handler

import (
	"html/template"
	"net/http"
	"strconv"

	"dinio/internal/auth"
	"dinio/internal/database"
	"dinio/internal/model"
	"dinio/internal/util"
)

const auditPageSize = 50

type AdminHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	usersTmpl  *template.Template
	auditTmpl  *template.Template
}

func NewAdminHandler(db *database.DB, sm *auth.SessionManager, usersTmpl, auditTmpl *template.Template) *AdminHandler {
	return &AdminHandler{db: db, sessionMgr: sm, usersTmpl: usersTmpl, auditTmpl: auditTmpl}
}

func (h *AdminHandler) UsersPage(w http.ResponseWriter, r *http.Request) {
	userID, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user, _ := h.db.GetUserByID(userID)

	users, err := h.db.ListUsers()
	if err != nil {
		http.Error(w, "Failed to load users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.usersTmpl.ExecuteTemplate(w, "admin_users.html", map[string]interface{}{
		"Title":     "Users",
		"Username":  usernameOf(user),
		"IsAdmin":   true,
		"CSRFToken": csrfToken,
		"Users":     users,
		"SelfID":    userID,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	adminID, _ := h.sessionMgr.GetUserID(r)
	_ = r.ParseForm()
	email := r.FormValue("email")
	username := r.FormValue("username")
	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	password := r.FormValue("password")
	isAdmin := r.FormValue("admin") == "on"

	if email == "" || username == "" || password == "" {
		redirectFlash(w, r, "/admin/users", "Email, username and password are required")
		return
	}
	if !auth.ValidPassword(password) {
		redirectFlash(w, r, "/admin/users", "Password must be at least 8 characters with an upper-case letter, a lower-case letter and a digit")
		return
	}
	if existing, err := h.db.GetUserByEmail(email); err == nil && existing != nil {
		redirectFlash(w, r, "/admin/users", "A user with that email already exists")
		return
	}

	if _, err := h.db.AdminCreateUser(email, username, firstName, lastName, password, isAdmin); err != nil {
		redirectFlash(w, r, "/admin/users", "Failed to create user: "+err.Error())
		return
	}

	h.audit(adminID, model.AuditEntry{
		Action:    "admin_user_create",
		Detail:    email,
		IPAddress: util.GetClientIP(r),
	})
	redirectFlash(w, r, "/admin/users", "User created")
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, _ := h.sessionMgr.GetUserID(r)
	_ = r.ParseForm()
	targetID, _ := strconv.ParseInt(r.FormValue("user_id"), 10, 64)

	if targetID == adminID {
		redirectFlash(w, r, "/admin/users", "You cannot delete your own account")
		return
	}

	target, _ := h.db.GetUserByID(targetID)
	if target == nil {
		redirectFlash(w, r, "/admin/users", "User not found")
		return
	}

	if err := h.db.DeleteUser(targetID); err != nil {
		redirectFlash(w, r, "/admin/users", "Failed to delete user: "+err.Error())
		return
	}

	h.audit(adminID, model.AuditEntry{
		Action:    "admin_user_delete",
		Detail:    target.Email,
		IPAddress: util.GetClientIP(r),
	})
	redirectFlash(w, r, "/admin/users", "User deleted")
}

func (h *AdminHandler) AuditPage(w http.ResponseWriter, r *http.Request) {
	userID, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user, _ := h.db.GetUserByID(userID)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	entries, total, err := h.db.ListAuditLog(auditPageSize, (page-1)*auditPageSize)
	if err != nil {
		http.Error(w, "Failed to load audit log: "+err.Error(), http.StatusInternalServerError)
		return
	}

	totalPages := (total + auditPageSize - 1) / auditPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	h.auditTmpl.ExecuteTemplate(w, "admin_audit.html", map[string]interface{}{
		"Title":      "Audit Log",
		"Username":   usernameOf(user),
		"IsAdmin":    true,
		"CSRFToken":  csrfToken,
		"Entries":    entries,
		"Page":       page,
		"TotalPages": totalPages,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"HasPrev":    page > 1,
		"HasNext":    page < totalPages,
	})
}

func (h *AdminHandler) audit(userID int64, entry model.AuditEntry) {
	user, _ := h.db.GetUserByID(userID)
	entry.Username = usernameOf(user)
	_ = h.db.LogAudit(entry)
}
