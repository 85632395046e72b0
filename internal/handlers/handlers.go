package handlers

import (
	"net/http"
	"time"

	"supplierhub/internal/blob"
	"supplierhub/internal/broadcast"
	"supplierhub/internal/paywall"

	"go.uber.org/zap"
)

// Handler serves the hub API on top of a Storage.
type Handler struct {
	Store       StorageInterface
	Files       blob.Store
	Broadcaster *broadcast.Broadcaster
	Paywall     *paywall.Checker
	Log         *zap.Logger

	now func() time.Time
}

type Options struct {
	Files    blob.Store
	Mailer   broadcast.Mailer
	Cache    paywall.Cache
	CacheTTL time.Duration
	Log      *zap.Logger
}

// NewHandler wires the domain services around store. Nil options fall back
// to a log mailer, no subscription cache and a no-op logger.
func NewHandler(store StorageInterface, opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	mailer := opts.Mailer
	if mailer == nil {
		mailer = broadcast.LogMailer{Log: log}
	}
	return &Handler{
		Store:       store,
		Files:       opts.Files,
		Broadcaster: broadcast.New(store, mailer, log),
		Paywall:     paywall.NewChecker(store, opts.Cache, opts.CacheTTL, log),
		Log:         log,
		now:         time.Now,
	}
}

// PingHandler answers "ok" for liveness checks.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
