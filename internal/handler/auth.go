package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dinio/internal/auth"
	"dinio/internal/database"
	"dinio/internal/model"
	"dinio/internal/service"
	"dinio/internal/util"
)

const tokenTTL = time.Hour

type AuthHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	ldap       *auth.LDAPClient
	mailer     *service.Mailer

	loginTmpl    *template.Template
	registerTmpl *template.Template
	forgotTmpl   *template.Template
	resetTmpl    *template.Template
}

func NewAuthHandler(db *database.DB, sm *auth.SessionManager, ldap *auth.LDAPClient, mailer *service.Mailer,
	loginTmpl, registerTmpl, forgotTmpl, resetTmpl *template.Template) *AuthHandler {
	return &AuthHandler{
		db: db, sessionMgr: sm, ldap: ldap, mailer: mailer,
		loginTmpl: loginTmpl, registerTmpl: registerTmpl, forgotTmpl: forgotTmpl, resetTmpl: resetTmpl,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessionMgr.GetUserID(r); ok {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
		return
	}
	h.loginTmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
		"LDAPEnabled": h.ldap != nil,
		"Flash":       r.URL.Query().Get("msg"),
	})
}

func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	login := r.FormValue("email")
	password := r.FormValue("password")

	var user *model.User
	var authMethod string

	// Try the directory first (if enabled); directory accounts are
	// provisioned verified on first login.
	if h.ldap != nil {
		result, err := h.ldap.Authenticate(login, password)
		if err == nil && result != nil {
			_, _ = h.db.CreateLDAPUser(result.Email, result.Username)
			user, _ = h.db.GetUserByEmail(result.Email)
			authMethod = "ldap"
		}
	}

	if user == nil {
		u, err := h.db.AuthenticateUser(login, password)
		if err == nil && u != nil {
			user = u
			authMethod = "local"
		}
	}

	if user == nil {
		h.loginTmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
			"Error":       "Invalid credentials",
			"LDAPEnabled": h.ldap != nil,
		})
		return
	}

	h.sessionMgr.CreateSession(w, user.ID)

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  user.Username,
		Action:    "login",
		Detail:    fmt.Sprintf("auth=%s", authMethod),
		IPAddress: util.GetClientIP(r),
	})

	http.Redirect(w, r, "/zones", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.sessionMgr.GetUserID(r)

	h.sessionMgr.DestroySession(w, r)

	if userID != 0 {
		user, _ := h.db.GetUserByID(userID)
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  usernameOf(user),
			Action:    "logout",
			IPAddress: util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.registerTmpl.ExecuteTemplate(w, "register.html", nil)
}

func (h *AuthHandler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := r.FormValue("email")
	username := r.FormValue("username")
	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	renderError := func(msg string) {
		h.registerTmpl.ExecuteTemplate(w, "register.html", map[string]interface{}{
			"Error": msg,
			"Email": email, "Username": username,
			"FirstName": firstName, "LastName": lastName,
		})
	}

	if email == "" || username == "" || firstName == "" || lastName == "" || password == "" || confirm == "" {
		renderError("All fields are required.")
		return
	}
	if password != confirm {
		renderError("Passwords do not match.")
		return
	}
	if !auth.ValidPassword(password) {
		renderError("Password must be at least 8 characters with an upper-case letter, a lower-case letter and a digit.")
		return
	}

	existing, err := h.db.GetUserByEmail(email)
	if err == nil && existing != nil {
		renderError("A user with that email already exists.")
		return
	}

	userID, err := h.db.CreateUser(email, username, firstName, lastName, password)
	if err != nil {
		renderError("Failed to create account: " + err.Error())
		return
	}

	token := uuid.NewString()
	if err := h.db.CreateUserToken(token, userID, model.TokenVerifyEmail, time.Now().Add(tokenTTL)); err != nil {
		renderError("Failed to create verification token: " + err.Error())
		return
	}
	if err := h.mailer.SendVerificationEmail(r.Context(), email, token); err != nil {
		renderError("Failed to send verification email: " + err.Error())
		return
	}

	h.registerTmpl.ExecuteTemplate(w, "register.html", map[string]interface{}{
		"Success": "A confirmation email is on its way!",
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/login?msg=Missing+verification+token", http.StatusSeeOther)
		return
	}

	t, err := h.db.GetUserToken(token, model.TokenVerifyEmail)
	if err != nil || t == nil || time.Now().After(t.ExpiresAt) {
		http.Redirect(w, r, "/login?msg=Verification+link+is+invalid+or+expired", http.StatusSeeOther)
		return
	}

	if err := h.db.SetUserVerified(t.UserID); err != nil {
		http.Redirect(w, r, "/login?msg=Verification+failed", http.StatusSeeOther)
		return
	}
	_ = h.db.DeleteUserToken(token)

	http.Redirect(w, r, "/login?msg=Email+confirmed,+you+can+log+in+now", http.StatusSeeOther)
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.forgotTmpl.ExecuteTemplate(w, "forgot_password.html", nil)
}

func (h *AuthHandler) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := r.FormValue("email")

	// Same response whether or not the account exists.
	user, err := h.db.GetUserByEmail(email)
	if err == nil && user != nil && user.AuthSource == "local" {
		token := uuid.NewString()
		if err := h.db.CreateUserToken(token, user.ID, model.TokenResetPassword, time.Now().Add(tokenTTL)); err == nil {
			_ = h.mailer.SendPasswordResetEmail(r.Context(), email, token)
		}
	}

	h.forgotTmpl.ExecuteTemplate(w, "forgot_password.html", map[string]interface{}{
		"Success": "If that account exists, a reset email has been sent.",
	})
}

func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.resetTmpl.ExecuteTemplate(w, "reset_password.html", map[string]interface{}{
		"Token": r.URL.Query().Get("token"),
	})
}

func (h *AuthHandler) ResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	token := r.FormValue("token")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	renderError := func(msg string) {
		h.resetTmpl.ExecuteTemplate(w, "reset_password.html", map[string]interface{}{
			"Error": msg,
			"Token": token,
		})
	}

	if password != confirm {
		renderError("Passwords do not match.")
		return
	}
	if !auth.ValidPassword(password) {
		renderError("Password must be at least 8 characters with an upper-case letter, a lower-case letter and a digit.")
		return
	}

	t, err := h.db.GetUserToken(token, model.TokenResetPassword)
	if err != nil || t == nil || time.Now().After(t.ExpiresAt) {
		renderError("Reset link is invalid or expired.")
		return
	}

	if err := h.db.UpdateUserPassword(t.UserID, password); err != nil {
		renderError("Failed to update password: " + err.Error())
		return
	}
	_ = h.db.DeleteUserToken(token)

	http.Redirect(w, r, "/login?msg=Password+updated,+you+can+log+in+now", http.StatusSeeOther)
}
