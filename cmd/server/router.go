package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/phrazzld/studio-api/internal/api/middleware"
)

// routes builds the HTTP router. Everything under /api except the auth
// endpoints requires a valid access token.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.authHandler.Register)
			r.Post("/login", app.authHandler.Login)
			r.Post("/refresh", app.authHandler.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			r.Post("/brief/parse", app.briefHandler.ParseBrief)
			r.Get("/briefs", app.briefHandler.ListBriefs)
			r.Get("/briefs/{id}", app.briefHandler.GetBrief)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", app.productHandler.CreateProduct)
				r.Get("/", app.productHandler.ListProducts)
				r.Get("/{id}", app.productHandler.GetProduct)
				r.Put("/{id}", app.productHandler.UpdateProduct)
				r.Delete("/{id}", app.productHandler.DeleteProduct)
			})

			r.Post("/content/generate", app.contentHandler.GenerateCopy)
			r.Post("/images/generate", app.contentHandler.GenerateImage)
			r.Get("/content", app.contentHandler.ListContent)
			r.Get("/content/{id}", app.contentHandler.GetContent)
			r.Get("/content/{id}/events", app.contentHandler.StreamContentEvents)

			r.Route("/chat/conversations", func(r chi.Router) {
				r.Post("/", app.chatHandler.StartConversation)
				r.Get("/{id}", app.chatHandler.GetConversation)
				r.Get("/{id}/messages", app.chatHandler.ListMessages)
				r.Post("/{id}/messages", app.chatHandler.SendMessage)
			})
		})
	})

	return r
}
