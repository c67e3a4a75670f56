package accesskit

import (
	"github.com/fernandezvara/dbkit"
)

// Service provides role/permission management, membership maintenance, and
// authorization evaluation. It integrates with the database through dbkit
// with enhanced error handling.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. AccessKit's own failure modes
// are typed so callers can distinguish conflicts from bad input:
//
//	role, err := service.CreateRole(ctx, accesskit.CreateRoleInput{Identifier: "admin"})
//	if err != nil {
//	    if accesskit.IsDuplicateIdentifier(err) {
//	        // another living role already owns "admin"
//	    }
//	    if accesskit.IsValidation(err) {
//	        // the input itself was malformed
//	    }
//	}
type Service struct {
	db        dbkit.IDB
	hosts     *HostRegistry
	langs     LocalizationBackend
	txMonitor *transactionMonitor
}

// ServiceOption configures the Service at construction time.
type ServiceOption func(*Service)

// WithHostRegistry injects the registry of polymorphic host types roles may
// belong to. Without it, roles cannot carry a host reference.
func WithHostRegistry(registry *HostRegistry) ServiceOption {
	return func(s *Service) {
		s.hosts = registry
	}
}

// WithLocalizationBackend selects where localized attribute rows are stored.
// The default is SplitTables (roles_lang / permissions_lang).
func WithLocalizationBackend(backend LocalizationBackend) ServiceOption {
	return func(s *Service) {
		s.langs = backend
	}
}

// NewService creates a new AccessKit service.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := accesskit.NewService(db,
//	    accesskit.WithHostRegistry(hosts),
//	)
func NewService(db dbkit.IDB, opts ...ServiceOption) *Service {
	s := &Service{
		db:        db,
		hosts:     NewHostRegistry(),
		langs:     SplitTables(),
		txMonitor: newTransactionMonitor(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Hosts returns the host registry.
func (s *Service) Hosts() *HostRegistry {
	return s.hosts
}

// bound returns a copy of the service bound to another database handle,
// typically a transaction.
func (s *Service) bound(db dbkit.IDB) *Service {
	copied := *s
	copied.db = db
	return &copied
}
