package entity

import (
	"database/sql"
	"time"

	"github.com/questx-lab/campaign/pkg/enum"
)

type TaskType string

var (
	TaskCheckIn     = enum.New(TaskType("CHECK_IN"))
	TaskMiniGame    = enum.New(TaskType("MINI_GAME"))
	TaskQuiz        = enum.New(TaskType("QUIZ"))
	TaskTextAnswer  = enum.New(TaskType("TEXT_ANSWER"))
	TaskPhotoUpload = enum.New(TaskType("PHOTO_UPLOAD"))
	TaskPhotoText   = enum.New(TaskType("PHOTO_TEXT"))
	TaskMultiQuiz   = enum.New(TaskType("MULTI_QUIZ"))
	TaskBookDate    = enum.New(TaskType("BOOK_DATE"))
)

type DailyTask struct {
	Base

	Day         int `gorm:"uniqueIndex"`
	Title       string
	Description string   `gorm:"type:text"`
	TaskType    TaskType `gorm:"size:32"`
	TaskConfig  Map
	Points      int64
	IsOpen      bool
	IsClosed    bool
}

type TaskCompletion struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_task_completions_user_task;size:36"`
	User   User   `gorm:"foreignKey:UserID"`

	TaskID string    `gorm:"uniqueIndex:idx_task_completions_user_task;index;size:36"`
	Task   DailyTask `gorm:"foreignKey:TaskID"`

	Answer      sql.NullString `gorm:"type:text"`
	CompletedAt time.Time
}
