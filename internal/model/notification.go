package model

type GetNotificationsRequest struct{}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

type ReadNotificationsRequest struct {
	ID  string `json:"id"`
	All bool   `json:"all"`
}

type ReadNotificationsResponse struct{}
