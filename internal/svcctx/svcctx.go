// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/mbenito/docueval/internal/calls"
	"github.com/mbenito/docueval/internal/config"
	"github.com/mbenito/docueval/internal/editor"
	"github.com/mbenito/docueval/internal/generator"
	"github.com/mbenito/docueval/internal/home"
	"github.com/mbenito/docueval/internal/persist"
	"github.com/mbenito/docueval/internal/providers"
	"github.com/mbenito/docueval/internal/store"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Generator *generator.Generator
	Store     *store.Store
	Sessions  *editor.Manager
	Registry  *providers.Registry
	Persist   *persist.Client
	ConfigMgr *config.Manager
	CallStore *calls.Store
	Home      *home.Dir
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// GeneratorFrom extracts the report generator from context.
func GeneratorFrom(ctx context.Context) *generator.Generator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Generator
	}
	return nil
}

// StoreFrom extracts the pending-report store from context.
func StoreFrom(ctx context.Context) *store.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// SessionsFrom extracts the editing-session manager from context.
func SessionsFrom(ctx context.Context) *editor.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Sessions
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// PersistFrom extracts the persistence client from context.
func PersistFrom(ctx context.Context) *persist.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Persist
	}
	return nil
}

// CallStoreFrom extracts the call log store from context.
func CallStoreFrom(ctx context.Context) *calls.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.CallStore
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context.
// Returns slog.Default() if not present.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
