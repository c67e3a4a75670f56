package accesskit

import (
	"errors"
	"net/http"
)

// Middleware provides HTTP middleware for role and permission checking.
type Middleware struct {
	service      *Service
	getUserID    func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := accesskit.NewMiddleware(service,
//	    accesskit.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Header.Get("X-User-ID")
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNoUserID) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if IsValidation(err) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// require is the common gate: extract the user, evaluate the check against
// a freshly loaded Checker, attach the Checker to the request context on
// success.
func (m *Middleware) require(check func(*Checker) bool, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			checker, err := m.service.GetChecker(ctx, userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !check(checker) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, message).WithUser(userID))
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates middleware that requires one role.
//
// Example:
//
//	router.With(mw.RequireRole("billing.admin")).
//	    Post("/billing/settings", updateSettingsHandler)
func (m *Middleware) RequireRole(identifier string) func(http.Handler) http.Handler {
	return m.require(func(c *Checker) bool {
		return c.HasRole(identifier)
	}, "missing required role")
}

// RequireAnyRole creates middleware that requires any of the specified roles.
func (m *Middleware) RequireAnyRole(identifiers []string) func(http.Handler) http.Handler {
	return m.require(func(c *Checker) bool {
		return c.HasAnyRole(identifiers)
	}, "missing required role")
}

// RequireAllRoles creates middleware that requires every one of the
// specified roles. An empty list always denies.
func (m *Middleware) RequireAllRoles(identifiers []string) func(http.Handler) http.Handler {
	return m.require(func(c *Checker) bool {
		return c.HasRoles(identifiers)
	}, "missing required role")
}

// RequirePermission creates middleware that requires one permission.
//
// Example:
//
//	router.With(mw.RequirePermission("files.upload")).
//	    Post("/files", uploadHandler)
func (m *Middleware) RequirePermission(identifier string) func(http.Handler) http.Handler {
	return m.require(func(c *Checker) bool {
		return c.CanDo(identifier)
	}, "missing required permission")
}

// RequireAnyPermission creates middleware that requires any of the specified
// permissions.
func (m *Middleware) RequireAnyPermission(identifiers []string) func(http.Handler) http.Handler {
	return m.require(func(c *Checker) bool {
		return c.CanDoAny(identifiers)
	}, "missing required permission")
}

// RequireAllPermissions creates middleware that requires every one of the
// specified permissions. An empty list always denies.
func (m *Middleware) RequireAllPermissions(identifiers []string) func(http.Handler) http.Handler {
	return m.require(func(c *Checker) bool {
		return c.CanDoAll(identifiers)
	}, "missing required permission")
}

// LoadChecker creates middleware that loads the user's Checker into context.
// Use this when you want to do permission checks in the handler rather than
// middleware. Requests without a user pass through without a Checker.
//
// Example:
//
//	router.With(mw.LoadChecker()).Get("/dashboard", dashboardHandler)
//
//	func dashboardHandler(w http.ResponseWriter, r *http.Request) {
//	    checker := accesskit.FromContext(r.Context())
//	    if checker != nil && checker.HasRole("admin") {
//	        // Show admin features
//	    }
//	}
func (m *Middleware) LoadChecker() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			checker, err := m.service.GetChecker(ctx, userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectRequestContext creates middleware that seeds the request context with
// the user, author, and display language. The language comes from the
// X-Display-Language header when it parses; malformed codes are ignored.
//
// Example:
//
//	router.Use(mw.InjectRequestContext())
func (m *Middleware) InjectRequestContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := m.getUserID(r)
			if userID != "" {
				ctx = WithUserID(ctx, userID)
				ctx = WithAuthorID(ctx, userID)
			}

			if raw := r.Header.Get("X-Display-Language"); raw != "" {
				if code, err := NormalizeLanguageCode(raw); err == nil {
					ctx = WithLanguage(ctx, code)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
