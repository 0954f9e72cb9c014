package entity

import (
	"database/sql"

	"github.com/questx-lab/campaign/pkg/enum"
)

type PointType string

var (
	PointTaskCompletion = enum.New(PointType("TASK_COMPLETION"))
	PointPhotoUpload    = enum.New(PointType("PHOTO_UPLOAD"))
	PointEarlyLogin     = enum.New(PointType("EARLY_LOGIN"))
	PointAdminAdjust    = enum.New(PointType("ADMIN_ADJUSTMENT"))
)

// PointTransaction is an append-only ledger entry. The sum of amounts of a
// user equals the user's total points.
type PointTransaction struct {
	Base

	UserID string `gorm:"index;size:36"`
	User   User   `gorm:"foreignKey:UserID"`

	Amount      int64
	Type        PointType `gorm:"size:32"`
	ReferenceID sql.NullString
	Description sql.NullString
}
