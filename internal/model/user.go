package model

type GetMeRequest struct{}

type UserStats struct {
	Completions int64 `json:"completions"`
	Photos      int64 `json:"photos"`
	Tickets     int64 `json:"tickets"`
}

type GetMeResponse struct {
	User         User               `json:"user"`
	Stats        UserStats          `json:"stats"`
	Transactions []PointTransaction `json:"transactions"`
	Tickets      []LotteryTicket    `json:"tickets"`
}

type GetUsersRequest struct {
	Q      string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type AdminUser struct {
	User
	Completions int64 `json:"completions"`
	Tickets     int64 `json:"tickets"`
}

type GetUsersResponse struct {
	Users []AdminUser `json:"users"`
	Total int64       `json:"total"`
}

type UpdateUserRequest struct {
	UserID       string `uri:"id" json:"-"`
	Role         string `json:"role"`
	AdjustPoints int64  `json:"adjust_points"`
	Reason       string `json:"reason"`
}

type UpdateUserResponse struct {
	User       User `json:"user"`
	NewTickets int  `json:"new_tickets"`
}

type GetUserTransactionsRequest struct {
	UserID string `uri:"id" form:"-"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type GetUserTransactionsResponse struct {
	Transactions []PointTransaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	ID string `uri:"id" form:"-"`
}

type DeleteTransactionResponse struct {
	Transaction PointTransaction `json:"transaction"`
}
