package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/domain/statistic"
	"github.com/questx-lab/campaign/internal/domain/taskclaim"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/questx-lab/campaign/pkg/xredis"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTaskCompletionDomain() *taskCompletionDomain {
	return NewTaskCompletionDomain(
		repository.NewTaskRepository(),
		repository.NewTaskCompletionRepository(),
		newTestLedger(),
		newTestNotifier(),
	)
}

func Test_taskCompletionDomain_Complete_EarnsTicketOnThirdTask(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		_, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: day})
		require.NoError(t, err)
	}

	d := newTestTaskCompletionDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	expectedTickets := []int{0, 0, 1}
	for i, expected := range expectedTickets {
		resp, err := d.Complete(userCtx, &model.CompleteTaskRequest{Day: i + 1})
		require.NoError(t, err)
		require.Equal(t, int64(2), resp.Points)
		require.Equal(t, int64(2*(i+1)), resp.TotalPoints)
		require.Equal(t, expected, resp.NewTickets)
	}

	tickets, err := repository.NewLotteryRepository().GetTicketsByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, entity.TicketActive, tickets[0].Status)

	sum, err := repository.NewPointTransactionRepository().SumAmountByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(6), sum)

	unread, err := repository.NewNotificationRepository().CountUnread(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)
}

func Test_taskCompletionDomain_Complete_AtMostOnce(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	task, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: 1})
	require.NoError(t, err)

	d := newTestTaskCompletionDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	require.NoError(t, err)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	requireCode(t, err, errorx.Conflict)

	userIDs, err := repository.NewTaskCompletionRepository().GetUserIDsByTaskID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, []string{user.ID}, userIDs)

	transactions, err := repository.NewPointTransactionRepository().GetListByUserID(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, entity.PointTaskCompletion, transactions[0].Type)
	require.Equal(t, task.Title, transactions[0].Description.String)
}

func Test_taskCompletionDomain_Complete_Gating(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository()
	_, err = testutil.SampleTask(ctx, &entity.DailyTask{Day: 1})
	require.NoError(t, err)
	require.NoError(t, taskRepo.UpdateByDay(ctx, 1, map[string]any{"is_open": false}))

	_, err = testutil.SampleTask(ctx, &entity.DailyTask{Day: 2, IsClosed: true})
	require.NoError(t, err)

	d := newTestTaskCompletionDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	requireCode(t, err, errorx.Forbidden)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 2})
	requireCode(t, err, errorx.Forbidden)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 3})
	requireCode(t, err, errorx.NotFound)

	// Without gating both tasks are accepted.
	cfg := xcontext.Configs(userCtx)
	cfg.Campaign.EnforceGating = false
	ungatedCtx := xcontext.WithConfigs(userCtx, cfg)

	_, err = d.Complete(ungatedCtx, &model.CompleteTaskRequest{Day: 1})
	require.NoError(t, err)
	_, err = d.Complete(ungatedCtx, &model.CompleteTaskRequest{Day: 2})
	require.NoError(t, err)
}

func Test_taskCompletionDomain_Complete_MultiQuizRetry(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	task, err := testutil.SampleTask(ctx, &entity.DailyTask{
		Day:      4,
		TaskType: entity.TaskMultiQuiz,
		TaskConfig: entity.Map{
			"questions": []any{
				map[string]any{"question": "q1", "options": []any{"a", "b"}, "correct_answer": 0},
				map[string]any{"question": "q2", "options": []any{"a", "b"}, "correct_answer": 1},
			},
		},
	})
	require.NoError(t, err)

	d := newTestTaskCompletionDomain()
	completionRepo := repository.NewTaskCompletionRepository()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	// A wrong answer persists nothing and reports the wrong question.
	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{
		Day:        4,
		Submission: taskclaim.Submission{Answers: []int{0, 0}},
	})
	errx := requireCode(t, err, errorx.InvalidAnswer)
	require.Equal(t, taskclaim.WrongAnswers{WrongIndices: []int{1}}, errx.Detail)

	_, err = completionRepo.Get(ctx, user.ID, task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sum, err := repository.NewPointTransactionRepository().SumAmountByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, sum)

	// Retry with correct answers.
	resp, err := d.Complete(userCtx, &model.CompleteTaskRequest{
		Day:        4,
		Submission: taskclaim.Submission{Answers: []int{0, 1}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.TotalPoints)

	completion, err := completionRepo.Get(ctx, user.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, "[0,1]", completion.Answer.String)

	// Completed multi quiz is terminal.
	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{
		Day:        4,
		Submission: taskclaim.Submission{Answers: []int{0, 1}},
	})
	requireCode(t, err, errorx.Conflict)
}

func Test_taskCompletionDomain_Complete_PointsFallback(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.SampleTask(ctx, &entity.DailyTask{Day: 1, Points: 5})
	require.NoError(t, err)
	_, err = testutil.SampleTask(ctx, &entity.DailyTask{Day: 2})
	require.NoError(t, err)
	require.NoError(t, repository.NewTaskRepository().UpdateByDay(ctx, 2, map[string]any{"points": 0}))

	d := newTestTaskCompletionDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	resp, err := d.Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	require.NoError(t, err)
	require.Equal(t, int64(5), resp.Points)

	resp, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 2})
	require.NoError(t, err)
	require.Equal(t, xcontext.Configs(ctx).Campaign.PointsPerTask, resp.Points)
	require.Equal(t, int64(7), resp.TotalPoints)
}

func Test_taskCompletionDomain_Complete_LedgerFailureRollsBack(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	task, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: 1})
	require.NoError(t, err)

	db := xcontext.DB(ctx)
	err = db.Callback().Create().Before("gorm:create").Register("test:fail_point_transactions", func(tx *gorm.DB) {
		if tx.Statement.Table == "point_transactions" {
			_ = tx.AddError(errors.New("injected failure"))
		}
	})
	require.NoError(t, err)

	d := newTestTaskCompletionDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	require.Error(t, err)

	_, err = repository.NewTaskCompletionRepository().Get(ctx, user.ID, task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	u, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, u.TotalPoints)

	// The same submission succeeds once the storage recovers.
	require.NoError(t, db.Callback().Create().Remove("test:fail_point_transactions"))

	resp, err := d.Complete(userCtx, &model.CompleteTaskRequest{Day: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.TotalPoints)
}

func Test_taskCompletionDomain_Complete_Quiz(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.SampleTask(ctx, &entity.DailyTask{
		Day:        2,
		TaskType:   entity.TaskQuiz,
		TaskConfig: entity.Map{"question": "q", "options": []any{"a", "b", "c"}, "correct_answer": 2},
	})
	require.NoError(t, err)

	d := newTestTaskCompletionDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{
		Day:        2,
		Submission: taskclaim.Submission{Answer: []byte("1")},
	})
	requireCode(t, err, errorx.InvalidAnswer)

	_, err = d.Complete(userCtx, &model.CompleteTaskRequest{
		Day:        2,
		Submission: taskclaim.Submission{Answer: []byte("2")},
	})
	require.NoError(t, err)
}

// refillingListener invalidates the leaderboard and, like a concurrent reader,
// immediately reads it back through the request context.
type refillingListener struct {
	readerCtx context.Context
	board     statistic.Leaderboard
	seen      []model.LeaderboardEntry
}

func (l *refillingListener) OnPointsChanged(ctx context.Context) {
	l.board.OnPointsChanged(ctx)
	l.seen, _ = l.board.GetTop(l.readerCtx)
}

func Test_taskCompletionDomain_Complete_LeaderboardSeesCommittedPoints(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	_, err = testutil.SampleTask(ctx, &entity.DailyTask{Day: 1})
	require.NoError(t, err)

	cache := map[string][]byte{}
	board := statistic.New(repository.NewUserRepository(), &testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			b, err := json.Marshal(obj)
			cache[key] = b
			return err
		},
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			b, ok := cache[key]
			if !ok {
				return xredis.ErrNil
			}
			return json.Unmarshal(b, v)
		},
		DelFunc: func(ctx context.Context, key ...string) error {
			for _, k := range key {
				delete(cache, k)
			}
			return nil
		},
	})
	listener := &refillingListener{readerCtx: ctx, board: board}

	d := NewTaskCompletionDomain(
		repository.NewTaskRepository(),
		repository.NewTaskCompletionRepository(),
		ledger.New(
			repository.NewUserRepository(),
			repository.NewPointTransactionRepository(),
			repository.NewLotteryRepository(),
			listener,
		),
		newTestNotifier(),
	)

	resp, err := d.Complete(xcontext.WithRequestUserID(ctx, user.ID), &model.CompleteTaskRequest{Day: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.TotalPoints)

	require.Len(t, listener.seen, 1)
	require.Equal(t, int64(2), listener.seen[0].TotalPoints)

	top, err := board.GetTop(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, user.ID, top[0].User.ID)
	require.Equal(t, int64(2), top[0].TotalPoints)
}

func Test_taskCompletionDomain_Complete_LocksUserBeforeInsert(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	for day := 1; day <= 2; day++ {
		_, err := testutil.SampleTask(ctx, &entity.DailyTask{Day: day})
		require.NoError(t, err)
	}

	recorder := &lockRecorder{Ledger: newTestLedger(), table: "task_completions"}
	d := NewTaskCompletionDomain(
		repository.NewTaskRepository(),
		repository.NewTaskCompletionRepository(),
		recorder,
		newTestNotifier(),
	)

	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	for day := 1; day <= 2; day++ {
		_, err := d.Complete(userCtx, &model.CompleteTaskRequest{Day: day})
		require.NoError(t, err)
	}
	require.Equal(t, []int64{0, 1}, recorder.rowsAtLock)

	_, err = d.Complete(xcontext.WithRequestUserID(ctx, "ghost"), &model.CompleteTaskRequest{Day: 1})
	requireCode(t, err, errorx.NotFound)

	n, err := repository.NewTaskCompletionRepository().CountByUserID(ctx, "ghost")
	require.NoError(t, err)
	require.Zero(t, n)
}
