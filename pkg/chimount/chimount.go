// Package chimount registers the routes of a routes.Table on a chi router.
//
// The table stays the single source of truth for paths: handlers are bound
// by route name (or by pattern for unnamed routes) and chi receives the
// converted pattern.
//
//	r := chi.NewRouter()
//	err := chimount.Mount(r, table, chimount.Handlers{
//	    "user":   userHandler,
//	    "/about": aboutHandler,
//	})
//
// A route whose metadata has a "method" string is registered for that HTTP
// method only; others accept every method.
package chimount

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/routekit/pkg/routepath"
	"github.com/vango-dev/routekit/pkg/routes"
)

// MethodKey is the metadata key read for the HTTP method.
const MethodKey = "method"

// Handlers maps route names or patterns to handlers.
type Handlers map[string]http.Handler

// Errors returned by Mount.
var (
	ErrUnusedHandler = errors.New("handler does not match any route")
	ErrBadMethod     = errors.New("invalid method metadata")
)

// Config configures Mount.
type Config struct {
	// RequireAll makes Mount fail when a route has no handler.
	RequireAll bool

	// Logger receives one Debug line per registered route
	// (default: slog.Default()).
	Logger *slog.Logger
}

// Option configures Mount.
type Option func(*Config)

// WithRequireAll makes every route in the table need a handler.
func WithRequireAll() Option {
	return func(c *Config) {
		c.RequireAll = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Mount registers every route of t that has a handler. A handler key that
// matches no route is an error, as is a route without a handler under
// WithRequireAll.
func Mount(r chi.Router, t *routes.Table, handlers Handlers, opts ...Option) error {
	config := Config{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	used := make(map[string]bool, len(handlers))

	// Pattern keys match in normalized form, so "/about/" binds "/about".
	byPattern := make(map[string]string)
	for key := range handlers {
		if strings.HasPrefix(key, "/") {
			byPattern[routepath.Normalize(key)] = key
		}
	}

	for _, info := range t.All() {
		key, h := handlerFor(info, handlers, byPattern)
		if h == nil {
			if config.RequireAll {
				return fmt.Errorf("chimount: no handler for %s", describe(info))
			}
			continue
		}
		used[key] = true

		pattern := ChiPattern(info.Pattern, t.TrailingSlash())
		method, err := methodOf(info)
		if err != nil {
			return fmt.Errorf("chimount: %s: %w", describe(info), err)
		}

		if method == "" {
			r.Handle(pattern, h)
		} else {
			r.Method(method, pattern, h)
		}

		config.Logger.Debug("chimount: route registered",
			slog.String("pattern", pattern),
			slog.String("method", method),
			slog.String("handler", key))
	}

	var unused []string
	for key := range handlers {
		if !used[key] {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		slices.Sort(unused)
		return fmt.Errorf("chimount: %w: %s", ErrUnusedHandler, strings.Join(unused, ", "))
	}

	return nil
}

// ChiPattern converts a route pattern into chi syntax: ":id" becomes
// "{id}". With trailingSlash the result ends in "/".
func ChiPattern(pattern string, trailingSlash bool) string {
	segments := routepath.Parse(pattern)

	var b strings.Builder
	b.WriteByte('/')
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('/')
		}
		if seg.IsParam() {
			b.WriteString("{" + seg.Name + "}")
		} else {
			b.WriteString(seg.Name)
		}
	}
	if trailingSlash && len(segments) > 0 {
		b.WriteByte('/')
	}
	return b.String()
}

func handlerFor(info routes.Info, handlers Handlers, byPattern map[string]string) (string, http.Handler) {
	if info.Name != "" {
		if h, ok := handlers[info.Name]; ok {
			return info.Name, h
		}
	}
	if key, ok := byPattern[info.Pattern]; ok {
		return key, handlers[key]
	}
	return "", nil
}

func methodOf(info routes.Info) (string, error) {
	v, ok := info.Meta[MethodKey]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %v", ErrBadMethod, v)
	}
	return strings.ToUpper(strings.TrimSpace(s)), nil
}

func describe(info routes.Info) string {
	if info.Name != "" {
		return fmt.Sprintf("%s (%s)", info.Pattern, info.Name)
	}
	return info.Pattern
}
