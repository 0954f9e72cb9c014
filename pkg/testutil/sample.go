package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
)

// SampleUser creates a new user in database with randomized identity. The
// sample can be overwritten by non-zero fields of init.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	sample := &entity.User{
		Base:        entity.Base{ID: uuid.NewString()},
		SubjectID:   uuid.NewString(),
		DisplayName: "user-" + uuid.NewString()[:8],
		Role:        entity.RoleUser,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	err := repository.NewUserRepository().Create(ctx, sample)
	return *sample, err
}

// SampleTask creates a new open check-in task. The sample can be overwritten
// by non-zero fields of init.
func SampleTask(ctx context.Context, init *entity.DailyTask) (entity.DailyTask, error) {
	sample := &entity.DailyTask{
		Base:       entity.Base{ID: uuid.NewString()},
		Title:      "task",
		TaskType:   entity.TaskCheckIn,
		TaskConfig: entity.Map{},
		Points:     2,
		IsOpen:     true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	err := repository.NewTaskRepository().Create(ctx, sample)
	return *sample, err
}

func SamplePrize(ctx context.Context, init *entity.Prize) (entity.Prize, error) {
	sample := &entity.Prize{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     "prize",
		Quantity: 1,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	err := repository.NewLotteryRepository().CreatePrize(ctx, sample)
	return *sample, err
}

// SampleTickets inserts n active tickets for userID, bypassing the ledger.
func SampleTickets(ctx context.Context, userID string, n int) ([]entity.LotteryTicket, error) {
	tickets := make([]entity.LotteryTicket, 0, n)
	for i := 0; i < n; i++ {
		tickets = append(tickets, entity.LotteryTicket{
			Base:         entity.Base{ID: uuid.NewString()},
			UserID:       userID,
			TicketNumber: "T-" + uuid.NewString()[:18],
			Status:       entity.TicketActive,
		})
	}

	err := repository.NewLotteryRepository().CreateTickets(ctx, tickets)
	return tickets, err
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
