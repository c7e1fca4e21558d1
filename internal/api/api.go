package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/susu3304/wageflow/internal/db"
)

// Store is the read side of the ledger the dashboard exposes.
type Store interface {
	Ping(ctx context.Context) error
	CompanyByID(ctx context.Context, id int64) (*db.Company, error)
	ActiveEmployees(ctx context.Context, companyID int64) ([]db.Employee, error)
	RecentPayments(ctx context.Context, companyID int64, limit int) ([]db.PaymentRecord, error)
}

type API struct {
	router    *mux.Router
	store     Store
	jwtSecret []byte
	tokenTTL  time.Duration
	server    *http.Server
}

// New builds the HTTP surface. webhook may be nil when the bot long-polls.
func New(bind, jwtSecret string, store Store, webhook http.Handler) *API {
	api := &API{
		router:    mux.NewRouter(),
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
	api.setupRoutes(webhook)

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}
	api.server = &http.Server{
		Addr:              bind,
		Handler:           cors.New(corsOptions).Handler(api.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api
}

func (a *API) setupRoutes(webhook http.Handler) {
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	if webhook != nil {
		a.router.Handle("/telegram/webhook/{secret}", webhook).Methods("POST")
	}

	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/company", a.handleCompany).Methods("GET")
	protected.HandleFunc("/employees", a.handleEmployees).Methods("GET")
	protected.HandleFunc("/payments", a.handlePayments).Methods("GET")
}

func (a *API) Handler() http.Handler {
	return a.server.Handler
}

// Start blocks serving HTTP until Shutdown is called.
func (a *API) Start() error {
	log.Printf("API server listening on http://%s", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
