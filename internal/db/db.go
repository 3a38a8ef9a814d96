package db

import "database/sql"

// DB wraps the shared sql.DB handle so dependents take an internal type.
type DB struct {
	*sql.DB
}
