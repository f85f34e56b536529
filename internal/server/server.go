package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"dinio/internal/auth"
	"dinio/internal/config"
	"dinio/internal/database"
	"dinio/internal/handler"
	"dinio/internal/service"
	"dinio/web"
)

func mustParseTemplates(fsys fs.FS, funcMap template.FuncMap, files ...string) *template.Template {
	tmpl := template.New("").Funcs(funcMap)
	tmpl, err := tmpl.ParseFS(fsys, files...)
	if err != nil {
		log.Fatalf("Failed to parse templates %v: %v", files, err)
	}
	return tmpl
}

func Start(cfg *config.Config, version string) error {
	db, err := database.Open(cfg.Database.DSN, web.MigrationsFS())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sessionMgr, err := auth.NewSessionManager(db)
	if err != nil {
		return fmt.Errorf("failed to init session manager: %w", err)
	}

	_ = db.PurgeExpiredSessions()
	_ = db.PurgeExpiredTokens()

	zoneSvc := service.NewZoneService(db, cfg.Nameservers)
	billingSvc := service.NewBillingService(db)
	paypal := service.NewPayPalClient(cfg.PayPal)
	mailer := service.NewMailer(cfg.Email, cfg.Server.BaseURL)

	tmplFS := web.TemplateFS()

	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"subtract":   func(a, b int) int { return a - b },
		"version":    func() string { return version },
		"formatDate": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"formatDay":  func(t time.Time) string { return t.Format("2006-01-02") },
	}

	loginTmpl := mustParseTemplates(tmplFS, funcMap, "templates/login.html")
	registerTmpl := mustParseTemplates(tmplFS, funcMap, "templates/register.html")
	forgotTmpl := mustParseTemplates(tmplFS, funcMap, "templates/forgot_password.html")
	resetTmpl := mustParseTemplates(tmplFS, funcMap, "templates/reset_password.html")
	zonesTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/zones.html")
	zoneTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/zone.html")
	packagesTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/packages.html")
	adminUsersTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_users.html")
	adminAuditTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_audit.html")

	// Initialize LDAP client (nil if disabled)
	var ldapClient *auth.LDAPClient
	if cfg.LDAP.Enabled {
		ldapClient = auth.NewLDAPClient(cfg.LDAP)
		log.Println("LDAP authentication enabled")
		log.Printf("LDAP server: %s", cfg.LDAP.URL)
	}

	authH := handler.NewAuthHandler(db, sessionMgr, ldapClient, mailer,
		loginTmpl, registerTmpl, forgotTmpl, resetTmpl)
	zoneH := handler.NewZoneHandler(db, sessionMgr, zoneSvc, billingSvc, zonesTmpl)
	recH := handler.NewRecordHandler(db, sessionMgr, zoneSvc, zoneTmpl)
	billingH := handler.NewBillingHandler(db, sessionMgr, billingSvc, paypal, packagesTmpl)
	adminH := handler.NewAdminHandler(db, sessionMgr, adminUsersTmpl, adminAuditTmpl)

	mux := http.NewServeMux()

	mux.Handle("GET /static/", web.StaticHandler())

	mux.HandleFunc("GET /login", authH.LoginPage)
	mux.HandleFunc("POST /login", authH.LoginSubmit)
	mux.HandleFunc("POST /logout", authH.Logout)
	mux.HandleFunc("GET /register", authH.RegisterPage)
	mux.HandleFunc("POST /register", authH.RegisterSubmit)
	mux.HandleFunc("GET /verify", authH.Verify)
	mux.HandleFunc("GET /forgot-password", authH.ForgotPasswordPage)
	mux.HandleFunc("POST /forgot-password", authH.ForgotPasswordSubmit)
	mux.HandleFunc("GET /reset-password", authH.ResetPasswordPage)
	mux.HandleFunc("POST /reset-password", authH.ResetPasswordSubmit)

	mux.HandleFunc("GET /zones", sessionMgr.RequireVerified(zoneH.List))
	mux.HandleFunc("POST /zones/create", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(zoneH.Create)))
	mux.HandleFunc("POST /zones/rename", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(zoneH.Rename)))
	mux.HandleFunc("POST /zones/delete", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(zoneH.Delete)))

	mux.HandleFunc("GET /zones/{zoneID}", sessionMgr.RequireVerified(recH.ZonePage))
	mux.HandleFunc("POST /zones/{zoneID}/records/create", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(recH.CreateRecord)))
	mux.HandleFunc("POST /zones/{zoneID}/records/edit", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(recH.EditRecord)))
	mux.HandleFunc("POST /zones/{zoneID}/records/delete", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(recH.DeleteRecord)))
	mux.HandleFunc("POST /zones/{zoneID}/forwarding/create", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(recH.CreateForwarding)))
	mux.HandleFunc("POST /zones/{zoneID}/nameservers", sessionMgr.RequireVerified(sessionMgr.ValidateCSRF(recH.UpdateNameservers)))

	mux.HandleFunc("GET /packages", sessionMgr.RequireVerified(billingH.PackagesPage))
	// JSON endpoints driven by the PayPal browser SDK; authenticated by
	// session, no form CSRF token in the JSON body.
	mux.HandleFunc("POST /paypal/create-order", sessionMgr.RequireVerified(billingH.CreateOrder))
	mux.HandleFunc("POST /paypal/complete-order", sessionMgr.RequireVerified(billingH.CompleteOrder))

	mux.HandleFunc("GET /admin/users", sessionMgr.RequireAdmin(adminH.UsersPage))
	mux.HandleFunc("POST /admin/users/create", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(adminH.CreateUser)))
	mux.HandleFunc("POST /admin/users/delete", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(adminH.DeleteUser)))
	mux.HandleFunc("GET /admin/audit", sessionMgr.RequireAdmin(adminH.AuditPage))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/zones", http.StatusSeeOther)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("dinio server starting on %s", addr)
	return http.ListenAndServe(addr, mux)
}
