package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type countingListener struct {
	mu    sync.Mutex
	calls int
}

func (l *countingListener) OnPointsChanged(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
}

func newTestLedger(listeners ...ChangeListener) *ledger {
	return New(
		repository.NewUserRepository(),
		repository.NewPointTransactionRepository(),
		repository.NewLotteryRepository(),
		listeners...,
	)
}

func countTickets(t *testing.T, ctx context.Context, userID string) int64 {
	n, err := repository.NewLotteryRepository().CountTicketsByUserID(ctx, userID)
	require.NoError(t, err)
	return n
}

func requireBalanced(t *testing.T, ctx context.Context, userID string) int64 {
	user, err := repository.NewUserRepository().GetByID(ctx, userID)
	require.NoError(t, err)

	sum, err := repository.NewPointTransactionRepository().SumAmountByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, sum, user.TotalPoints)

	return user.TotalPoints
}

func Test_TicketsToMint(t *testing.T) {
	testCases := []struct {
		name   string
		total  int64
		amount int64
		want   int64
	}{
		{name: "below threshold", total: 5, amount: 5, want: 0},
		{name: "reach threshold", total: 6, amount: 6, want: 1},
		{name: "cross threshold", total: 7, amount: 2, want: 1},
		{name: "cross two thresholds", total: 13, amount: 12, want: 2},
		{name: "stay within bucket", total: 11, amount: 4, want: 0},
		{name: "decrease never mints", total: 6, amount: -1, want: 0},
		{name: "decrease across threshold", total: 5, amount: -7, want: 0},
		{name: "negative total", total: -1, amount: -1, want: 0},
		{name: "climb back from negative", total: 0, amount: 1, want: 1},
		{name: "negative to negative", total: -2, amount: 3, want: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TicketsToMint(tt.total, tt.amount, 6))
		})
	}

	require.Equal(t, int64(0), TicketsToMint(100, 100, 0))
}

func Test_floorDiv(t *testing.T) {
	require.Equal(t, int64(1), floorDiv(7, 6))
	require.Equal(t, int64(0), floorDiv(0, 6))
	require.Equal(t, int64(-1), floorDiv(-1, 6))
	require.Equal(t, int64(-1), floorDiv(-6, 6))
	require.Equal(t, int64(-2), floorDiv(-7, 6))
}

func Test_ledger_AddPoints_Monotonic(t *testing.T) {
	partitions := [][]int64{
		{6},
		{2, 2, 2},
		{1, 1, 1, 1, 1, 1, 1},
		{5, 7, 11, 1},
		{3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		{13},
	}

	for _, partition := range partitions {
		ctx := testutil.MockContext()
		user, err := testutil.SampleUser(ctx, nil)
		require.NoError(t, err)

		l := newTestLedger()
		minted := int64(0)
		for _, amount := range partition {
			result, err := l.AddPoints(ctx, Entry{
				UserID: user.ID,
				Amount: amount,
				Type:   entity.PointTaskCompletion,
			})
			require.NoError(t, err)
			minted += int64(len(result.NewTickets))
		}

		total := requireBalanced(t, ctx, user.ID)
		require.Equal(t, total/6, minted, "partition %v", partition)
		require.Equal(t, minted, countTickets(t, ctx, user.ID))
	}
}

func Test_ledger_AddPoints_MixedSign(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	l := newTestLedger()
	steps := []struct {
		amount int64
		minted int
	}{
		{amount: 5, minted: 0},
		{amount: 3, minted: 1},  // 8
		{amount: -4, minted: 0}, // 4, the issued ticket is kept
		{amount: 4, minted: 1},  // 8 again, the threshold is crossed again
		{amount: -10, minted: 0},
		{amount: 2, minted: 1}, // -2 -> 0
	}

	for i, step := range steps {
		result, err := l.AddPoints(ctx, Entry{UserID: user.ID, Amount: step.amount, Type: entity.PointAdminAdjust})
		require.NoError(t, err)
		require.Len(t, result.NewTickets, step.minted, "step %d", i)
	}

	require.Equal(t, int64(0), requireBalanced(t, ctx, user.ID))
	require.Equal(t, int64(3), countTickets(t, ctx, user.ID))
}

func Test_ledger_AddPoints_Result(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	listener := &countingListener{}
	result, err := newTestLedger(listener).AddPoints(ctx, Entry{
		UserID:      user.ID,
		Amount:      12,
		Type:        entity.PointPhotoUpload,
		ReferenceID: "photo1",
		Description: "Photo upload",
	})
	require.NoError(t, err)

	require.Equal(t, int64(12), result.User.TotalPoints)
	require.Equal(t, "photo1", result.Transaction.ReferenceID.String)
	require.Equal(t, "Photo upload", result.Transaction.Description.String)
	require.Len(t, result.NewTickets, 2)
	require.NotEqual(t, result.NewTickets[0].TicketNumber, result.NewTickets[1].TicketNumber)
	for _, ticket := range result.NewTickets {
		require.Regexp(t, "^CNY-[0-9A-F]{10}$", ticket.TicketNumber)
		require.Equal(t, entity.TicketActive, ticket.Status)
	}
	require.Equal(t, 1, listener.calls)
}

func Test_ledger_AddPoints_Errors(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := newTestLedger().AddPoints(ctx, Entry{UserID: "missing", Amount: 6, Type: entity.PointAdminAdjust})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.NotFound})

	sum, err := repository.NewPointTransactionRepository().SumAmount(ctx)
	require.NoError(t, err)
	require.Zero(t, sum)

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	_, err = newTestLedger().AddPoints(ctx, Entry{UserID: user.ID, Amount: 0, Type: entity.PointAdminAdjust})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.InvalidInput})
}

func Test_ledger_AddPoints_JoinsOuterTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	txCtx := xcontext.WithDBTransaction(ctx)
	_, err = newTestLedger().AddPoints(txCtx, Entry{UserID: user.ID, Amount: 6, Type: entity.PointAdminAdjust})
	require.NoError(t, err)
	xcontext.WithRollbackDBTransaction(txCtx)

	require.Equal(t, int64(0), requireBalanced(t, ctx, user.ID))
	require.Equal(t, int64(0), countTickets(t, ctx, user.ID))
}

func Test_ledger_AddPoints_Concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	l := newTestLedger()
	errs := make(chan error, 12)
	wg := sync.WaitGroup{}
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.AddPoints(ctx, Entry{UserID: user.ID, Amount: 1, Type: entity.PointTaskCompletion})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, int64(12), requireBalanced(t, ctx, user.ID))
	require.Equal(t, int64(2), countTickets(t, ctx, user.ID))
}

func Test_ledger_DeleteTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	l := newTestLedger()
	_, err = l.AddPoints(ctx, Entry{UserID: user.ID, Amount: 4, Type: entity.PointTaskCompletion})
	require.NoError(t, err)
	result, err := l.AddPoints(ctx, Entry{UserID: user.ID, Amount: 3, Type: entity.PointPhotoUpload})
	require.NoError(t, err)
	require.Len(t, result.NewTickets, 1)

	deleted, err := l.DeleteTransaction(ctx, result.Transaction.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted.Amount)

	require.Equal(t, int64(4), requireBalanced(t, ctx, user.ID))
	require.Equal(t, int64(1), countTickets(t, ctx, user.ID))

	_, err = l.DeleteTransaction(ctx, result.Transaction.ID)
	require.ErrorIs(t, err, errorx.Error{Code: errorx.NotFound})
}

func Test_ledger_AddPoints_NotifiesAfterOuterCommit(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	listener := &countingListener{}
	l := newTestLedger(listener)

	txCtx := xcontext.WithDBTransaction(ctx)
	_, err = l.AddPoints(txCtx, Entry{UserID: user.ID, Amount: 2, Type: entity.PointTaskCompletion})
	require.NoError(t, err)
	require.Zero(t, listener.calls)

	require.NoError(t, xcontext.WithCommitDBTransaction(txCtx))
	require.Equal(t, 1, listener.calls)

	// A rolled back outer transaction never notifies.
	txCtx = xcontext.WithDBTransaction(ctx)
	_, err = l.AddPoints(txCtx, Entry{UserID: user.ID, Amount: 2, Type: entity.PointTaskCompletion})
	require.NoError(t, err)
	xcontext.WithRollbackDBTransaction(txCtx)
	require.Equal(t, 1, listener.calls)
	require.Equal(t, int64(2), requireBalanced(t, ctx, user.ID))
}

func Test_ledger_LockUser(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, newTestLedger().LockUser(txCtx, user.ID))
	require.ErrorIs(t, newTestLedger().LockUser(txCtx, "missing"), errorx.Error{Code: errorx.NotFound})
	xcontext.WithRollbackDBTransaction(txCtx)
}
