// Package query wraps the mongo driver calls the stores need.
package query

import (
	"fmt"

	"github.com/x-xyz/rwat-deployer/base/ctx"
	"github.com/x-xyz/rwat-deployer/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// Index is a single index on table, keys in "field" or "-field" form.
type Index struct {
	Keys   []string
	Unique bool
}

type Mongo interface {
	// Insert inserts a new document to the table
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne decodes the first document matching query in sort order into result.
	// Returns ErrNotFound when nothing matches.
	FindOne(context ctx.Ctx, table domain.Table, sort string, query, result interface{}) error

	// Search sorts by `sort` ("createdAt" ascending, "-createdAt" descending); "" leaves order to mongo.
	// A zero limit means no limit.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	EnsureIndexes(context ctx.Ctx, table domain.Table, indexes ...Index) error
}
