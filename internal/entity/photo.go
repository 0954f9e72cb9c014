package entity

import "database/sql"

type PhotoUpload struct {
	Base

	UserID string `gorm:"index;size:36"`
	User   User   `gorm:"foreignKey:UserID"`

	StorageKey string `gorm:"uniqueIndex;size:255"`
	ImageURL   string
	Caption    sql.NullString `gorm:"type:text"`
}

type PhotoComment struct {
	Base

	PhotoID string      `gorm:"index;size:36"`
	Photo   PhotoUpload `gorm:"foreignKey:PhotoID"`

	UserID string `gorm:"index;size:36"`
	User   User   `gorm:"foreignKey:UserID"`

	Text string `gorm:"type:text"`
}
