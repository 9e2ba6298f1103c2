package contracts

import "context"

// TxRunner runs fn inside one database transaction. Repository calls made
// with the derived context join that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
