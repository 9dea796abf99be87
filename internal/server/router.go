package server

import (
	"net/http"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/api/handlers"
	"github.com/GaurishMcK/HR-Nexus/internal/api/middleware"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Logger            *zap.Logger
	Users             middleware.UserResolver
	Sessions          session.Store
	InquiryHandler    *handlers.InquiryHandler
	MeHandler         *handlers.MeHandler
	TicketHandler     *handlers.TicketHandler
	AdminHandler      *handlers.AdminHandler
	ComplianceHandler *handlers.ComplianceHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.UserAuth(cfg.Users))
		r.Use(middleware.Session(cfg.Sessions, cfg.Logger))

		r.Get("/me", cfg.MeHandler.Get)
		r.Put("/me/language", cfg.MeHandler.SetLanguage)
		r.Post("/inquiries", cfg.InquiryHandler.Ask)
		r.Get("/history", cfg.InquiryHandler.History)

		r.Route("/tickets", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleHR, domain.RoleAdmin))
			r.Get("/", cfg.TicketHandler.List)
			r.Get("/stats", cfg.TicketHandler.Stats)
			r.Get("/{id}", cfg.TicketHandler.Get)
			r.Patch("/{id}/status", cfg.TicketHandler.UpdateStatus)
			r.Post("/{id}/reply", cfg.TicketHandler.Reply)
			r.Post("/{id}/draft", cfg.TicketHandler.Draft)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/index/rebuild", cfg.AdminHandler.RebuildIndex)
			r.Post("/policies", cfg.AdminHandler.UploadPolicy)
			r.Route("/compliance", func(r chi.Router) {
				r.Post("/scan", cfg.ComplianceHandler.Scan)
				r.Post("/analyze", cfg.ComplianceHandler.Analyze)
				r.Post("/draft", cfg.ComplianceHandler.Draft)
				r.Post("/dispatch", cfg.ComplianceHandler.Dispatch)
			})
		})
	})

	return r
}
