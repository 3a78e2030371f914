// Package server provides an HTTP REST server that hosts a catalog of formal
// requirements. Clients submit signal temporal logic formulas which are
// compiled into monitor specs and stored along with the compiled artifact for
// later retrieval.
//
// The zero value of a CatalogServer is not ready for use; call New to obtain
// one.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/stlspec/internal/suite"
	"github.com/dekarrin/stlspec/server/api"
	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/server/middle"
	"github.com/dekarrin/stlspec/server/stlcat"
	"github.com/dekarrin/stlspec/stl/trans"
)

// CatalogServer is an HTTP REST server that provides cataloged STL
// requirements and their compiled monitor specs, along with the users allowed
// to manage them.
type CatalogServer struct {
	router  chi.Router
	backend stlcat.Service
	cfg     Config
}

// New creates a new CatalogServer from the given config. The DB named by the
// config is connected to, and if a suite path is configured its signal
// declarations are loaded and used to check all subsequently cataloged
// formulas.
func New(cfg Config) (CatalogServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return CatalogServer{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return CatalogServer{}, fmt.Errorf("connect db: %w", err)
	}

	var decls trans.Decls
	if cfg.SuitePath != "" {
		s, err := suite.LoadBundle(cfg.SuitePath)
		if err != nil {
			return CatalogServer{}, fmt.Errorf("load suite %q: %w", cfg.SuitePath, err)
		}
		decls = s.Decls
		log.Printf("INFO  loaded %d signal declaration(s) from suite %q", decls.Len(), s.Name)
	}

	cs := CatalogServer{
		backend: stlcat.Service{
			DB:    db,
			Decls: decls,
		},
		cfg: cfg,
	}

	cs.router = newRouter(api.API{
		Backend:     cs.backend,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}, db.Users())

	return cs, nil
}

// newRouter mounts all endpoints of the given API under api.PathPrefix.
func newRouter(a api.API, users dao.UserRepository) chi.Router {
	reqAuth := middle.RequireAuth(users, a.Secret, a.UnauthDelay)
	optAuth := middle.OptionalAuth(users, a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.With(optAuth).Post("/login", a.HTTPCreateLogin())
		r.With(reqAuth).Delete("/login/{id}", a.HTTPDeleteLogin())
		r.With(reqAuth).Post("/tokens", a.HTTPCreateToken())

		r.Route("/users", func(r chi.Router) {
			r.Use(reqAuth)

			r.Get("/", a.HTTPGetAllUsers())
			r.Post("/", a.HTTPCreateUser())

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.HTTPGetUser())
				r.Put("/", a.HTTPReplaceUser())
				r.Patch("/", a.HTTPUpdateUser())
				r.Delete("/", a.HTTPDeleteUser())
			})
		})

		r.Route("/requirements", func(r chi.Router) {
			r.With(optAuth).Get("/", a.HTTPGetAllRequirements())
			r.With(reqAuth).Post("/", a.HTTPCreateRequirement())

			r.Route("/{id}", func(r chi.Router) {
				r.With(optAuth).Get("/", a.HTTPGetRequirement())
				r.With(reqAuth).Patch("/", a.HTTPUpdateRequirement())
				r.With(reqAuth).Delete("/", a.HTTPDeleteRequirement())
				r.With(reqAuth).Post("/compilations", a.HTTPCreateCompilation())
			})
		})

		r.With(optAuth).Get("/info", a.HTTPGetInfo())
	})

	return r
}

// CreateUser creates a new user directly in the backing store, bypassing the
// HTTP API. It is intended for bootstrapping an initial admin account at
// server startup.
func (cs CatalogServer) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	return cs.backend.CreateUser(ctx, username, password, email, role)
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost".
// If port is less than 1, it will default to 8080.
//
// This function does not return until the server is stopped.
func (cs CatalogServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, cs.router))
}
