package entity

import "github.com/questx-lab/campaign/pkg/enum"

type GlobalRole string

var (
	RoleUser  = enum.New(GlobalRole("USER"))
	RoleAdmin = enum.New(GlobalRole("ADMIN"))
)

var GlobalAdminRoles = []GlobalRole{RoleAdmin}

type User struct {
	Base

	SubjectID   string `gorm:"uniqueIndex;size:128"`
	DisplayName string
	PictureURL  string
	Role        GlobalRole `gorm:"default:USER;size:16"`

	// TotalPoints is only written by the points ledger.
	TotalPoints int64 `gorm:"index:idx_users_ranking,priority:1"`
}
