package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/HebleV/putmeonmap/internal/auth"
	"github.com/HebleV/putmeonmap/internal/handler"
	mw "github.com/HebleV/putmeonmap/internal/middleware"
	"github.com/HebleV/putmeonmap/internal/web"
)

// Options wires the handlers into the route table. An empty JWTSecret
// leaves the submission listing public; a nil AuthH omits /auth/login.
type Options struct {
	Logger    *zap.Logger
	JWTSecret string
	SubH      *handler.SubmissionHandler
	GeoH      *handler.GeocodeHandler
	AuthH     *handler.AuthHandler
}

func New(o Options) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger(o.Logger))
	r.Use(mw.Recovery(o.Logger))
	r.Use(mw.CORS)

	r.Post("/submit-to-google", o.SubH.Submit)
	r.Get("/geocode", o.GeoH.Search)
	r.Get("/reverse-geocode", o.GeoH.Reverse)

	if o.AuthH != nil {
		r.Post("/auth/login", o.AuthH.Login)
	}

	r.Group(func(r chi.Router) {
		if o.JWTSecret != "" {
			r.Use(auth.Middleware(o.JWTSecret))
		}
		r.Get("/submissions", o.SubH.List)
		r.Get("/submissions/{id}", o.SubH.Get)
	})

	// Map widget
	r.Handle("/*", web.Handler())

	return r
}
