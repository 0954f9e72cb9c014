package entity

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/questx-lab/campaign/pkg/xcontext"
)

type Base struct {
	ID        string `gorm:"primarykey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Map map[string]any

func (m *Map) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), m)
	case []byte:
		return json.Unmarshal(t, m)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (m Map) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&DailyTask{},
		&TaskCompletion{},
		&PointTransaction{},
		&Prize{},
		&LotteryTicket{},
		&ScratchCard{},
		&BonusDraw{},
		&PhotoUpload{},
		&PhotoComment{},
		&Notification{},
	)
}
