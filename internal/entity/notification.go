package entity

import "github.com/questx-lab/campaign/pkg/enum"

type NotificationKind string

var (
	NotificationTicketMinted     = enum.New(NotificationKind("ticket_minted"))
	NotificationLotteryWon       = enum.New(NotificationKind("lottery_won"))
	NotificationScratchCardReady = enum.New(NotificationKind("scratch_card_ready"))
	NotificationBonusDrawWon     = enum.New(NotificationKind("bonus_draw_won"))
	NotificationPhotoComment     = enum.New(NotificationKind("photo_comment"))
)

type Notification struct {
	Base

	UserID string `gorm:"index;size:36"`

	Kind   NotificationKind `gorm:"size:32"`
	Title  string
	Body   string `gorm:"type:text"`
	IsRead bool   `gorm:"index"`
}
