package domain

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestLedger() ledger.Ledger {
	return ledger.New(
		repository.NewUserRepository(),
		repository.NewPointTransactionRepository(),
		repository.NewLotteryRepository(),
	)
}

func newTestNotifier() notification.Notifier {
	return notification.New(repository.NewNotificationRepository(), &testutil.MockPublisher{})
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func requireCode(t *testing.T, err error, code errorx.Code) errorx.Error {
	var errx errorx.Error
	require.True(t, errors.As(err, &errx), "unexpected error %v", err)
	require.Equal(t, code, errx.Code, errx.Message)
	return errx
}

// sampleCompleters creates n users who completed the task, bypassing the
// ledger.
func sampleCompleters(t *testing.T, ctx context.Context, task entity.DailyTask, n int) []entity.User {
	completionRepo := repository.NewTaskCompletionRepository()
	users := []entity.User{}
	for i := 0; i < n; i++ {
		user, err := testutil.SampleUser(ctx, nil)
		require.NoError(t, err)

		require.NoError(t, completionRepo.Create(ctx, &entity.TaskCompletion{
			Base:        entity.Base{ID: uuid.NewString()},
			UserID:      user.ID,
			TaskID:      task.ID,
			CompletedAt: time.Now(),
		}))
		users = append(users, user)
	}

	return users
}

// lockRecorder records, at every user lock, how many rows of table already
// reference the user inside the running transaction.
type lockRecorder struct {
	ledger.Ledger
	table      string
	rowsAtLock []int64
}

func (l *lockRecorder) LockUser(ctx context.Context, userID string) error {
	var n int64
	if err := xcontext.DB(ctx).Table(l.table).Where("user_id=?", userID).Count(&n).Error; err != nil {
		return err
	}

	l.rowsAtLock = append(l.rowsAtLock, n)
	return l.Ledger.LockUser(ctx, userID)
}
