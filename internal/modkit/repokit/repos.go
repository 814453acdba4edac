// Package repokit holds the shared types and helpers repos are written against
package repokit

import (
	"context"

	"incidencia/internal/platform/store"
)

// Queryer is the SQL surface a bound repo uses
type Queryer = store.RowQuerier

// TxRunner runs a function inside one transaction
type TxRunner = store.TxRunner

type (
	// Rows is a query result set
	Rows = store.Rows

	// Row is a single-row result
	Row = store.Row

	// CommandTag reports what a write did
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
