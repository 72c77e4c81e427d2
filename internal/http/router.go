package http

import (
	"net/http"

	"memorygym/internal/auth"
	"memorygym/internal/billing"
	"memorygym/internal/config"
	"memorygym/internal/feedback"
	"memorygym/internal/http/handler"
	mw "memorygym/internal/http/middleware"
	"memorygym/internal/importer"
	"memorygym/internal/study"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the wired services the router hands to handlers.
type Deps struct {
	Study    *study.Service
	Billing  *billing.Service
	Feedback *feedback.Service
	Limiter  feedback.Limiter
	Importer *importer.Importer
	Log      zerolog.Logger
}

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger(d.Log))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: db, Billing: d.Billing}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)
	r.With(auth.RequireAuth(jwtSvc)).Delete("/me", me.DeleteAccount)

	subjectH := &handler.SubjectHandler{Svc: d.Study}
	cardH := &handler.CardHandler{Svc: d.Study}
	importH := &handler.ImportHandler{Importer: d.Importer}

	r.Route("/subjects", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", subjectH.List)
		r.Post("/", subjectH.Create)
		r.Get("/count", subjectH.Count)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", subjectH.Update)
			r.Delete("/", subjectH.Delete)

			r.Get("/cards", cardH.List)
			r.Post("/cards", cardH.Create)
			r.Get("/cards/count", cardH.Count)
			r.Get("/cards/today", cardH.Today)
			r.Get("/cards/search", cardH.Search)
			r.Post("/cards/import", importH.Import)
		})
	})

	r.Route("/cards", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", cardH.List)
		r.Get("/today", cardH.Today)
		r.Get("/search", cardH.Search)

		r.Put("/{id}", cardH.Update)
		r.Delete("/{id}", cardH.Delete)
		r.Post("/{id}/review", cardH.Review)
		r.Post("/{id}/move", cardH.Move)
	})

	planH := &handler.PlanHandler{}
	r.Get("/plans", planH.Plans)

	payH := &handler.PaymentHandler{Svc: d.Billing}
	r.With(auth.RequireAuth(jwtSvc)).Post("/payments/order", payH.Order)
	r.With(auth.RequireAuth(jwtSvc)).Post("/payments/verify", payH.Verify)

	fbH := &handler.FeedbackHandler{Svc: d.Feedback, Limiter: d.Limiter}
	r.With(auth.OptionalAuth(jwtSvc)).Post("/feedback", fbH.Submit)

	return r
}
