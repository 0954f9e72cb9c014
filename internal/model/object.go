package model

type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PictureURL  string `json:"picture_url"`
	Role        string `json:"role,omitempty"`
	TotalPoints int64  `json:"total_points"`
	CreatedAt   string `json:"created_at"`
}

type ShortUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PictureURL  string `json:"picture_url"`
}

type Task struct {
	ID           string         `json:"id"`
	Day          int            `json:"day"`
	Date         string         `json:"date"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	TaskType     string         `json:"task_type"`
	TaskConfig   map[string]any `json:"task_config"`
	Points       int64          `json:"points"`
	IsOpen       bool           `json:"is_open"`
	IsClosed     bool           `json:"is_closed"`
	IsAccessible bool           `json:"is_accessible"`
	IsCompleted  bool           `json:"is_completed"`
}

type TaskCompletion struct {
	ID          string    `json:"id"`
	User        ShortUser `json:"user"`
	Answer      string    `json:"answer,omitempty"`
	CompletedAt string    `json:"completed_at"`
}

type PointTransaction struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type Prize struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Awarded     int    `json:"awarded"`
	Remaining   int    `json:"remaining"`
	TicketCount int64  `json:"ticket_count"`
}

type LotteryTicket struct {
	ID           string     `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	Status       string     `json:"status"`
	PrizeID      string     `json:"prize_id,omitempty"`
	PrizeName    string     `json:"prize_name,omitempty"`
	User         *ShortUser `json:"user,omitempty"`
	CreatedAt    string     `json:"created_at"`
}

type ScratchCard struct {
	ID          string     `json:"id"`
	TaskDay     int        `json:"task_day"`
	User        *ShortUser `json:"user,omitempty"`
	IsScratched bool       `json:"is_scratched"`
	ScratchedAt string     `json:"scratched_at,omitempty"`

	// Only revealed after scratching, or to admins.
	IsWinner  *bool  `json:"is_winner,omitempty"`
	PrizeName string `json:"prize_name,omitempty"`
}

type BonusDraw struct {
	ID        string    `json:"id"`
	TaskDay   int       `json:"task_day"`
	Winner    ShortUser `json:"winner"`
	PrizeName string    `json:"prize_name"`
	IsDonated bool      `json:"is_donated"`
	CreatedAt string    `json:"created_at"`
}

type Photo struct {
	ID        string    `json:"id"`
	User      ShortUser `json:"user"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt string    `json:"created_at"`

	CommentCount int64 `json:"comment_count"`
}

type PhotoComment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photo_id"`
	User      ShortUser `json:"user"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"created_at"`
}

type Notification struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank        int64     `json:"rank"`
	User        ShortUser `json:"user"`
	TotalPoints int64     `json:"total_points"`
}
