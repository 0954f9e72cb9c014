package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/common"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/crypto"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

const ticketTokenLength = 10

// Entry describes a point grant or deduction.
type Entry struct {
	UserID      string
	Amount      int64
	Type        entity.PointType
	ReferenceID string
	Description string
}

type Result struct {
	Transaction *entity.PointTransaction
	User        *entity.User
	NewTickets  []entity.LotteryTicket
}

// Ledger is the only writer of users' total points and the only creator of
// lottery tickets.
type Ledger interface {
	AddPoints(ctx context.Context, entry Entry) (*Result, error)
	DeleteTransaction(ctx context.Context, transactionID string) (*entity.PointTransaction, error)

	// LockUser takes the row lock of the user in the transaction of ctx. A
	// caller inserting rows which reference the user must lock it first, so
	// concurrent writers of one user wait for each other instead of
	// deadlocking on the foreign key check.
	LockUser(ctx context.Context, userID string) error
}

// ChangeListener is notified after a committed change of any user's points.
// When the ledger joins an outer transaction, the notification waits for the
// outer commit.
type ChangeListener interface {
	OnPointsChanged(ctx context.Context)
}

type ledger struct {
	userRepo    repository.UserRepository
	pointRepo   repository.PointTransactionRepository
	lotteryRepo repository.LotteryRepository
	listeners   []ChangeListener
}

func New(
	userRepo repository.UserRepository,
	pointRepo repository.PointTransactionRepository,
	lotteryRepo repository.LotteryRepository,
	listeners ...ChangeListener,
) *ledger {
	return &ledger{
		userRepo:    userRepo,
		pointRepo:   pointRepo,
		lotteryRepo: lotteryRepo,
		listeners:   listeners,
	}
}

// AddPoints records the entry, moves the user's total and mints the tickets
// crossed by the new total, all in one transaction. If ctx already carries a
// transaction the entry joins it and is committed by the caller.
func (l *ledger) AddPoints(ctx context.Context, entry Entry) (*Result, error) {
	if entry.Amount == 0 {
		return nil, errorx.New(errorx.InvalidInput, "Amount must not be zero")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := l.userRepo.IncreasePoints(ctx, entry.UserID, entry.Amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase points of user %s: %v", entry.UserID, err)
		return nil, errorx.Unknown
	}

	transaction := &entity.PointTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      entry.UserID,
		Amount:      entry.Amount,
		Type:        entry.Type,
		ReferenceID: nullString(entry.ReferenceID),
		Description: nullString(entry.Description),
	}
	if err := l.pointRepo.Create(ctx, transaction); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create point transaction: %v", err)
		return nil, errorx.Unknown
	}

	total, err := l.userRepo.GetPointsForUpdate(ctx, entry.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read back points of user %s: %v", entry.UserID, err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Campaign
	n := TicketsToMint(total, entry.Amount, cfg.PointsPerTicket)
	tickets := make([]entity.LotteryTicket, 0, n)
	for i := int64(0); i < n; i++ {
		tickets = append(tickets, entity.LotteryTicket{
			Base:         entity.Base{ID: uuid.NewString()},
			UserID:       entry.UserID,
			TicketNumber: cfg.TicketPrefix + crypto.RandomHex(ticketTokenLength),
			Status:       entity.TicketActive,
		})
	}

	if err := l.lotteryRepo.CreateTickets(ctx, tickets); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint %d tickets for user %s: %v", n, entry.UserID, err)
		return nil, errorx.Unknown
	}

	user, err := l.userRepo.GetByID(ctx, entry.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.AfterCommit(ctx, func() {
		if n > 0 {
			common.PromCounters[common.TicketMintedTotal].WithLabelValues(string(entry.Type)).Add(float64(n))
		}
		l.notify(ctx)
	})

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit points of user %s: %v", entry.UserID, err)
		return nil, errorx.Unknown
	}

	return &Result{Transaction: transaction, User: user, NewTickets: tickets}, nil
}

func (l *ledger) LockUser(ctx context.Context, userID string) error {
	if _, err := l.userRepo.GetPointsForUpdate(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot lock user %s: %v", userID, err)
		return errorx.Unknown
	}

	return nil
}

// DeleteTransaction removes a ledger entry and reverts its amount from the
// user's total. Tickets minted from it and the originating records are kept.
func (l *ledger) DeleteTransaction(ctx context.Context, transactionID string) (*entity.PointTransaction, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	transaction, err := l.pointRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found transaction")
		}

		xcontext.Logger(ctx).Errorf("Cannot get transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.pointRepo.Delete(ctx, transaction.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found transaction")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.userRepo.IncreasePoints(ctx, transaction.UserID, -transaction.Amount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revert points of user %s: %v", transaction.UserID, err)
		return nil, errorx.Unknown
	}

	xcontext.AfterCommit(ctx, func() { l.notify(ctx) })

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction deletion: %v", err)
		return nil, errorx.Unknown
	}
	return transaction, nil
}

func (l *ledger) notify(ctx context.Context) {
	ctx = xcontext.WithoutDBTransaction(ctx)
	for _, listener := range l.listeners {
		listener.OnPointsChanged(ctx)
	}
}

// TicketsToMint returns how many ticket thresholds of size perTicket the total
// crossed upwards when amount was added to reach it. Decreases never mint.
func TicketsToMint(total, amount, perTicket int64) int64 {
	if perTicket <= 0 {
		return 0
	}

	prev := floorDiv(total-amount, perTicket)
	cur := floorDiv(total, perTicket)
	if cur <= prev {
		return 0
	}

	return cur - prev
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
