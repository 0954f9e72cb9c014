package domain

import (
	"testing"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_pointDomain_DeleteTransaction_KeepsTicketsAndCompletion(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	task, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: 1, Points: 6})
	require.NoError(t, err)

	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	resp, err := newTestTaskCompletionDomain().Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	require.NoError(t, err)
	require.Equal(t, 1, resp.NewTickets)

	d := NewPointDomain(repository.NewUserRepository(), repository.NewPointTransactionRepository(), newTestLedger())
	transactions, err := d.GetTransactions(ctx, &model.GetUserTransactionsRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, transactions.Transactions, 1)

	deleted, err := d.DeleteTransaction(ctx, &model.DeleteTransactionRequest{ID: transactions.Transactions[0].ID})
	require.NoError(t, err)
	require.Equal(t, int64(6), deleted.Transaction.Amount)

	stored, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, stored.TotalPoints)

	tickets, err := repository.NewLotteryRepository().CountTicketsByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), tickets)

	_, err = repository.NewTaskCompletionRepository().Get(ctx, user.ID, task.ID)
	require.NoError(t, err)

	_, err = d.DeleteTransaction(ctx, &model.DeleteTransactionRequest{ID: transactions.Transactions[0].ID})
	requireCode(t, err, errorx.NotFound)

	_, err = d.GetTransactions(ctx, &model.GetUserTransactionsRequest{UserID: "unknown"})
	requireCode(t, err, errorx.NotFound)
}
