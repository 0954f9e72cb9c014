package model

type GetLeaderboardRequest struct{}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Me      *LeaderboardEntry  `json:"me,omitempty"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Users         int64 `json:"users"`
	Completions   int64 `json:"completions"`
	Photos        int64 `json:"photos"`
	PointsAwarded int64 `json:"points_awarded"`
	ActiveTickets int64 `json:"active_tickets"`
	WinnerTickets int64 `json:"winner_tickets"`
}
