package db

import "context"

// Transactor runs fn so that every repository call made with the ctx passed to fn
// shares one transaction. An error from fn discards all of its writes.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
