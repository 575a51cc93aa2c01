package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UnitOfWork stages statements in a transaction and flushes them with a single commit.
type UnitOfWork struct {
	pool PgxPool
}

func NewUnitOfWork(pool PgxPool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Do runs fn inside a transaction. Any error from fn, or a panic, rolls the
// transaction back; otherwise it is committed.
func (u *UnitOfWork) Do(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
