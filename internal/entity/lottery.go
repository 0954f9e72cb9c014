package entity

import (
	"database/sql"

	"github.com/questx-lab/campaign/pkg/enum"
)

type Prize struct {
	Base

	Name     string
	Quantity int
	Awarded  int
}

type TicketStatus string

var (
	TicketActive    = enum.New(TicketStatus("ACTIVE"))
	TicketWinner    = enum.New(TicketStatus("WINNER"))
	TicketNotWinner = enum.New(TicketStatus("NOT_WINNER"))
)

type LotteryTicket struct {
	Base

	UserID string `gorm:"index;size:36"`
	User   User   `gorm:"foreignKey:UserID"`

	TicketNumber string       `gorm:"uniqueIndex;size:32"`
	Status       TicketStatus `gorm:"index;size:16"`

	PrizeID sql.NullString `gorm:"index;size:36"`
	Prize   Prize          `gorm:"foreignKey:PrizeID"`
}
