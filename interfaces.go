package accesskit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, tx *Service) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}

// Authorizer defines the evaluation surface handlers usually depend on
type Authorizer interface {
	HasRole(ctx context.Context, userID, identifier string) bool
	HasAnyRole(ctx context.Context, userID string, identifiers []string) bool
	HasRoles(ctx context.Context, userID string, identifiers []string) bool
	CanDo(ctx context.Context, userID, identifier string) bool
	CanDoAny(ctx context.Context, userID string, identifiers []string) bool
	CanDoAll(ctx context.Context, userID string, identifiers []string) bool
	GetChecker(ctx context.Context, userID string) (*Checker, error)
}

// AttributeStore defines the localized attribute interface
type AttributeStore interface {
	SetAttribute(ctx context.Context, owner OwnerRef, code, key, value string) error
	GetAttribute(ctx context.Context, owner OwnerRef, code, key string) (string, bool, error)
	GetAttributeWithFallback(ctx context.Context, owner OwnerRef, code, key string) (string, bool, error)
	AttributeHistory(ctx context.Context, owner OwnerRef, code, key string) ([]LocalizedAttribute, error)
}

// Directory defines the listing interface
type Directory interface {
	ListRoles(ctx context.Context, filter DirectoryFilter) ([]DirectoryRow, error)
	ListPermissions(ctx context.Context, filter DirectoryFilter) ([]DirectoryRow, error)
	CountRoles(ctx context.Context, filter DirectoryFilter) (int, error)
	CountPermissions(ctx context.Context, filter DirectoryFilter) (int, error)
	RoleChoices(ctx context.Context, code string) ([]Choice, error)
	PermissionChoices(ctx context.Context, code string) ([]Choice, error)
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}
