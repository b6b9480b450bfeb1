// Command schoolspace is a terminal client for the SchoolSpace backend. It
// drives the same session store, profile resolver and auth gate the mobile
// app uses, over either the in-process backend or a running dev server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/schoolspace/schoolspace/i18n"
	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/backend/local"
	"github.com/schoolspace/schoolspace/internal/backend/rest"
	"github.com/schoolspace/schoolspace/internal/config"
	"github.com/schoolspace/schoolspace/internal/db"
	"github.com/schoolspace/schoolspace/internal/nav"
	"github.com/schoolspace/schoolspace/internal/policy"
	"github.com/schoolspace/schoolspace/internal/session"
)

// services bundles the backend contracts the client needs; both backend modes
// satisfy it.
type services interface {
	backend.AuthService
	backend.ProfileStore
	backend.Directory
	backend.PostStore
}

func newServices(cfg *config.Config) (services, error) {
	switch cfg.Backend.Mode {
	case "rest":
		return rest.New(cfg.Backend.BaseURL), nil
	case "local", "":
		conn, err := db.ConnectAndMigrate(cfg.Database)
		if err != nil {
			return nil, err
		}
		return local.New(conn), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Backend.Mode)
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	svc, err := newServices(cfg)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	store := session.New(svc, svc, policy.NewProfileResolver(svc))
	navigator := nav.New(nav.RouteHome)

	gate := policy.NewAuthGate(store, navigator)
	unbind := gate.Bind()
	defer unbind()

	store.Start(context.Background())
	defer store.Close()

	a := &app{
		cfg:   cfg,
		svc:   svc,
		store: store,
		nav:   navigator,
		lang:  i18n.DetectLanguage(cfg.App.Lang),
		out:   os.Stdout,
	}
	if err := a.run(os.Stdin); err != nil {
		log.Fatalf("client: %v", err)
	}
}
