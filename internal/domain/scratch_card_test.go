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

func newTestScratchCardDomain() *scratchCardDomain {
	return NewScratchCardDomain(
		repository.NewTaskRepository(),
		repository.NewTaskCompletionRepository(),
		repository.NewScratchCardRepository(),
		newTestNotifier(),
		newTestRand(),
	)
}

func Test_scratchCardDomain_Generate(t *testing.T) {
	ctx := testutil.MockContext()
	task, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: 1})
	require.NoError(t, err)
	users := sampleCompleters(t, ctx, task, 5)

	d := newTestScratchCardDomain()
	req := &model.GenerateScratchCardsRequest{Day: 1, PrizeName: "Gift card", WinnerCount: 2}

	// The task is still open.
	_, err = d.Generate(ctx, req)
	requireCode(t, err, errorx.Forbidden)

	require.NoError(t, repository.NewTaskRepository().UpdateByDay(ctx, 1, map[string]any{"is_closed": true}))

	resp, err := d.Generate(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 5, resp.Total)
	require.Equal(t, 2, resp.Winners)

	_, err = d.Generate(ctx, req)
	requireCode(t, err, errorx.Conflict)

	summary, err := d.GetSummary(ctx, &model.GetScratchCardSummaryRequest{Day: 1})
	require.NoError(t, err)
	require.Equal(t, 5, summary.Total)
	require.Equal(t, 2, summary.Winners)
	require.Zero(t, summary.Scratched)

	for _, card := range summary.Cards {
		require.NotNil(t, card.IsWinner)
		if *card.IsWinner {
			require.Equal(t, "Gift card", card.PrizeName)
		} else {
			require.Empty(t, card.PrizeName)
		}
	}

	// Every completer is notified.
	for _, u := range users {
		unread, err := repository.NewNotificationRepository().CountUnread(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), unread)
	}
}

func Test_scratchCardDomain_Generate_EmptyPool(t *testing.T) {
	ctx := testutil.MockContext()
	_, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: 2, IsClosed: true})
	require.NoError(t, err)

	d := newTestScratchCardDomain()
	_, err = d.Generate(ctx, &model.GenerateScratchCardsRequest{Day: 2, PrizeName: "Gift", WinnerCount: 1})
	requireCode(t, err, errorx.EmptyPool)

	_, err = d.Generate(ctx, &model.GenerateScratchCardsRequest{Day: 2, PrizeName: "", WinnerCount: 1})
	requireCode(t, err, errorx.InvalidInput)

	_, err = d.Generate(ctx, &model.GenerateScratchCardsRequest{Day: 9, PrizeName: "Gift", WinnerCount: 1})
	requireCode(t, err, errorx.NotFound)
}

func Test_scratchCardDomain_ScratchOnce(t *testing.T) {
	ctx := testutil.MockContext()
	task, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: 3, IsClosed: true})
	require.NoError(t, err)
	users := sampleCompleters(t, ctx, task, 1)
	outsider, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	d := newTestScratchCardDomain()
	_, err = d.Generate(ctx, &model.GenerateScratchCardsRequest{Day: 3, PrizeName: "Gift", WinnerCount: 1})
	require.NoError(t, err)

	userCtx := xcontext.WithRequestUserID(ctx, users[0].ID)

	// The result is hidden before scratching.
	card, err := d.Get(userCtx, &model.GetScratchCardRequest{Day: 3})
	require.NoError(t, err)
	require.False(t, card.Card.IsScratched)
	require.Nil(t, card.Card.IsWinner)

	scratched, err := d.Scratch(userCtx, &model.ScratchCardRequest{Day: 3})
	require.NoError(t, err)
	require.True(t, scratched.Card.IsScratched)
	require.NotEmpty(t, scratched.Card.ScratchedAt)
	require.NotNil(t, scratched.Card.IsWinner)
	require.True(t, *scratched.Card.IsWinner)
	require.Equal(t, "Gift", scratched.Card.PrizeName)

	_, err = d.Scratch(userCtx, &model.ScratchCardRequest{Day: 3})
	requireCode(t, err, errorx.Conflict)

	card, err = d.Get(userCtx, &model.GetScratchCardRequest{Day: 3})
	require.NoError(t, err)
	require.True(t, *card.Card.IsWinner)

	_, err = d.Scratch(xcontext.WithRequestUserID(ctx, outsider.ID), &model.ScratchCardRequest{Day: 3})
	requireCode(t, err, errorx.NotFound)
}
