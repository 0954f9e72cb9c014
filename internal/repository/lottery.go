package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrStaleRows is returned when a conditional batch update touched fewer rows
// than requested because some of them changed concurrently.
var ErrStaleRows = errors.New("the number of affected rows is invalid")

type PrizeTicketCount struct {
	PrizeID string
	Count   int64
}

type LotteryRepository interface {
	// Prize
	CreatePrize(ctx context.Context, prize *entity.Prize) error
	GetPrizeByID(ctx context.Context, prizeID string) (*entity.Prize, error)
	GetPrizes(ctx context.Context) ([]entity.Prize, error)
	CheckAndAwardPrize(ctx context.Context, prizeID string, n int) error

	// Ticket
	CreateTickets(ctx context.Context, tickets []entity.LotteryTicket) error
	GetActiveTicketIDs(ctx context.Context) ([]string, error)
	MarkWinners(ctx context.Context, ticketIDs []string, prizeID string) error
	GetTicketsByIDs(ctx context.Context, ticketIDs []string) ([]entity.LotteryTicket, error)
	GetTicketsByUserID(ctx context.Context, userID string) ([]entity.LotteryTicket, error)
	CountTicketsByUserID(ctx context.Context, userID string) (int64, error)
	CountTicketsByStatus(ctx context.Context, status entity.TicketStatus) (int64, error)
	CountTicketsGroupByPrize(ctx context.Context) ([]PrizeTicketCount, error)
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

func (r *lotteryRepository) CreatePrize(ctx context.Context, prize *entity.Prize) error {
	return xcontext.DB(ctx).Create(prize).Error
}

func (r *lotteryRepository) GetPrizeByID(ctx context.Context, prizeID string) (*entity.Prize, error) {
	var result entity.Prize
	if err := xcontext.DB(ctx).Take(&result, "id=?", prizeID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) GetPrizes(ctx context.Context) ([]entity.Prize, error) {
	var result []entity.Prize
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) CheckAndAwardPrize(ctx context.Context, prizeID string, n int) error {
	tx := xcontext.DB(ctx).Model(&entity.Prize{}).
		Where("id=? AND awarded+? <= quantity", prizeID, n).
		Update("awarded", gorm.Expr("awarded+?", n))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CreateTickets(ctx context.Context, tickets []entity.LotteryTicket) error {
	if len(tickets) == 0 {
		return nil
	}

	return xcontext.DB(ctx).CreateInBatches(&tickets, insertBatchSize).Error
}

func (r *lotteryRepository) GetActiveTicketIDs(ctx context.Context) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.LotteryTicket{}).
		Where("status=?", entity.TicketActive).
		Order("id ASC").
		Pluck("id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) MarkWinners(ctx context.Context, ticketIDs []string, prizeID string) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryTicket{}).
		Where("id IN (?) AND status=?", ticketIDs, entity.TicketActive).
		Updates(map[string]any{
			"status":   entity.TicketWinner,
			"prize_id": prizeID,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected != int64(len(ticketIDs)) {
		return ErrStaleRows
	}

	return nil
}

func (r *lotteryRepository) GetTicketsByIDs(ctx context.Context, ticketIDs []string) ([]entity.LotteryTicket, error) {
	var result []entity.LotteryTicket
	err := xcontext.DB(ctx).Preload("User").
		Where("id IN (?)", ticketIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) GetTicketsByUserID(ctx context.Context, userID string) ([]entity.LotteryTicket, error) {
	var result []entity.LotteryTicket
	err := xcontext.DB(ctx).Preload("Prize").
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) CountTicketsByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.LotteryTicket{}).Where("user_id=?", userID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *lotteryRepository) CountTicketsByStatus(ctx context.Context, status entity.TicketStatus) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.LotteryTicket{}).Where("status=?", status).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *lotteryRepository) CountTicketsGroupByPrize(ctx context.Context) ([]PrizeTicketCount, error) {
	var result []PrizeTicketCount
	err := xcontext.DB(ctx).Model(&entity.LotteryTicket{}).
		Select("prize_id, COUNT(*) AS count").
		Where("prize_id IS NOT NULL").
		Group("prize_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
