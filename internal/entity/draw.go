package entity

import (
	"database/sql"
)

type ScratchCard struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_scratch_cards_user_day;size:36"`
	User   User   `gorm:"foreignKey:UserID"`

	TaskDay int `gorm:"uniqueIndex:idx_scratch_cards_user_day;index"`

	// IsWinner and PrizeName are decided at generation and never change.
	IsWinner  bool
	PrizeName sql.NullString

	IsScratched bool
	ScratchedAt sql.NullTime
}

type BonusDraw struct {
	Base

	TaskDay int `gorm:"index"`

	WinnerID string `gorm:"index;size:36"`
	Winner   User   `gorm:"foreignKey:WinnerID"`

	PrizeName string
	IsDonated bool

	// ActiveDay equals TaskDay while the draw is not donated and NULL after.
	// Its unique index allows at most one active draw per day.
	ActiveDay sql.NullInt64 `gorm:"uniqueIndex"`
}
