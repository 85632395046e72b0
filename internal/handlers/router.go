package handlers

import (
	"net/http"

	"supplierhub/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	JWTSecret  string
	ServiceKey string
	Log        *zap.Logger
}

// NewRouter mounts the API under /api. A nil h serves only the public
// routes and answers 503 everywhere else.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", PingHandler)
		r.Get("/calculator", CalculatorHandler)
		r.Get("/export", ExportInfoHandler)

		if h == nil {
			r.HandleFunc("/*", BackendUnavailable)
			return
		}

		r.Group(func(r chi.Router) {
			r.Use(RequireServiceKey(cfg.ServiceKey))
			r.Post("/export", h.ExportHandler)
			r.Get("/export/download", h.DownloadExportHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.JWTSecret))

			// rfqs
			r.Get("/rfqs", h.GetRFQsHandler)
			r.Post("/rfqs", h.CreateRFQHandler)
			r.Route("/rfqs/{rfqId}", func(r chi.Router) {
				r.Get("/", h.GetRFQHandler)
				r.Patch("/", h.UpdateRFQHandler)
				r.Delete("/", h.DeleteRFQHandler)

				r.Post("/attachments", h.UploadAttachmentHandler)
				r.Get("/attachments", h.GetAttachmentsHandler)
				r.Delete("/attachments/{attachmentId}", h.DeleteAttachmentHandler)

				r.Get("/candidates", h.GetCandidatesHandler)
				r.Post("/send", h.SendRFQHandler)
				r.Get("/sent", h.GetSentHandler)
				r.Put("/sent/{sentId}/status", h.UpdateSentStatusHandler)

				r.Post("/quotes", h.CreateQuoteHandler)
				r.Get("/quotes", h.GetQuotesHandler)
				r.Get("/quotes/compare", h.CompareQuotesHandler)
			})
			r.Put("/quotes/{quoteId}/status", h.UpdateQuoteStatusHandler)

			// templates
			r.Get("/templates", h.GetTemplatesHandler)
			r.Post("/templates", h.CreateTemplateHandler)
			r.Put("/templates/{templateId}", h.UpdateTemplateHandler)
			r.Delete("/templates/{templateId}", h.DeleteTemplateHandler)
			r.Get("/templates/{templateId}/preview", h.PreviewTemplateHandler)

			// catalog
			r.Get("/factories", h.GetFactoriesHandler)
			r.Get("/factories/{factoryId}", h.GetFactoryHandler)
			r.Post("/factories/{factoryId}/unlock", h.UnlockFactoryHandler)
			r.Get("/categories", h.GetCategoriesHandler)
		})
	})

	return r
}
