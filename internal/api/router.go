// Package api wires HTTP routes to handlers.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/recovery"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/auth"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/config"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/service"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store"
)

// NewRouter builds the full route table. Protected routes are wrapped by
// the auth middleware; entry mutations additionally pass the ownership
// check.
func NewRouter(st store.Store, cfg *config.Config, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(!cfg.IsProduction()))

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	mw := auth.NewMiddleware(tokens, st, log)

	userSvc := service.NewUserService(st, tokens, log)
	entrySvc := service.NewEntryService(st, log)

	authHandler := NewAuthHandler(userSvc)
	entryHandler := NewEntryHandler(entrySvc)
	healthHandler := NewHealthHandler(st)

	// Health
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Auth
	root.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	root.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	root.Handle("/api/auth/profile", mw.RequireAuth(http.HandlerFunc(authHandler.GetProfile))).Methods("GET")
	root.Handle("/api/auth/profile", mw.RequireAuth(http.HandlerFunc(authHandler.UpdateProfile))).Methods("PUT")

	// Entries. The stats route is registered before {id} so "stats" is
	// never captured as an entry id.
	root.Handle("/api/entries/stats", mw.RequireAuth(http.HandlerFunc(entryHandler.MoodStats))).Methods("GET")
	root.Handle("/api/entries", mw.RequireAuth(http.HandlerFunc(entryHandler.Create))).Methods("POST")
	root.Handle("/api/entries", mw.RequireAuth(http.HandlerFunc(entryHandler.List))).Methods("GET")
	root.Handle("/api/entries/{id}", mw.RequireAuth(http.HandlerFunc(entryHandler.Get))).Methods("GET")
	root.Handle("/api/entries/{id}", mw.RequireAuth(mw.RequireEntryOwner(http.HandlerFunc(entryHandler.Update)))).Methods("PUT")
	root.Handle("/api/entries/{id}", mw.RequireAuth(mw.RequireEntryOwner(http.HandlerFunc(entryHandler.Delete)))).Methods("DELETE")

	return root
}
