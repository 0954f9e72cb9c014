package xcontext_test

import (
	"testing"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestAfterCommit(t *testing.T) {
	ctx := testutil.MockContext()

	calls := 0
	xcontext.AfterCommit(ctx, func() { calls++ })
	require.Equal(t, 1, calls, "runs immediately without a transaction")

	txCtx := xcontext.WithDBTransaction(ctx)
	innerCtx := xcontext.WithDBTransaction(txCtx)
	xcontext.AfterCommit(innerCtx, func() { calls++ })
	require.NoError(t, xcontext.WithCommitDBTransaction(innerCtx))
	require.Equal(t, 1, calls, "a joined context does not commit")

	require.NoError(t, xcontext.WithCommitDBTransaction(txCtx))
	require.Equal(t, 2, calls)

	txCtx = xcontext.WithDBTransaction(ctx)
	xcontext.AfterCommit(txCtx, func() { calls++ })
	xcontext.WithRollbackDBTransaction(txCtx)
	require.Equal(t, 2, calls)
}

func TestWithoutDBTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, repository.NewUserRepository().IncreasePoints(txCtx, user.ID, 5))
	xcontext.WithRollbackDBTransaction(txCtx)

	// The transaction is gone, so reads go to the plain handle.
	got, err := repository.NewUserRepository().GetByID(xcontext.WithoutDBTransaction(txCtx), user.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleUser, got.Role)
	require.Zero(t, got.TotalPoints)
}
