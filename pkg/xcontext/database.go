package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTx struct {
	tx *gorm.DB

	// owner is false when the transaction was opened by an outer caller. Only
	// the owner commits or rolls back.
	owner bool

	// afterCommit is shared by the owner and every joined context.
	afterCommit *[]func()
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction if any, otherwise the database handle.
// The handle is bound to ctx.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTx); ok && t != nil {
		return t.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction which DB(ctx) returns until it is
// committed or rolled back. If ctx already carries a transaction, the
// returned context joins it.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTx); ok && t != nil {
		return context.WithValue(ctx, dbTxKey{}, &dbTx{tx: t.tx, owner: false, afterCommit: t.afterCommit})
	}

	db := ctx.Value(dbKey{}).(*gorm.DB)
	return context.WithValue(ctx, dbTxKey{}, &dbTx{
		tx:          db.WithContext(ctx).Begin(),
		owner:       true,
		afterCommit: &[]func(){},
	})
}

// WithoutDBTransaction returns a context whose DB is the plain database
// handle, for work which must not use the transaction of ctx.
func WithoutDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, (*dbTx)(nil))
}

// AfterCommit runs f once the outermost transaction of ctx is committed. It
// runs f immediately if ctx carries no transaction, and never if the
// transaction is rolled back.
func AfterCommit(ctx context.Context, f func()) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || t == nil {
		f()
		return
	}

	*t.afterCommit = append(*t.afterCommit, f)
}

func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || t == nil || !t.owner {
		return nil
	}

	if err := t.tx.Commit().Error; err != nil {
		*t.afterCommit = nil
		return err
	}

	hooks := *t.afterCommit
	*t.afterCommit = nil
	for _, f := range hooks {
		f()
	}

	return nil
}

// WithRollbackDBTransaction is meant to be deferred right after
// WithDBTransaction; it is a no-op once the transaction has been committed.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || t == nil || !t.owner {
		return
	}

	*t.afterCommit = nil
	t.tx.Rollback()
}
