package model

import "github.com/questx-lab/campaign/internal/domain/taskclaim"

type GetTasksRequest struct{}

type GetTasksResponse struct {
	Tasks      []Task `json:"tasks"`
	CurrentDay int    `json:"current_day"`
}

type GetTaskRequest struct {
	Day int `uri:"day" form:"-"`
}

type GetTaskResponse struct {
	Task        Task             `json:"task"`
	Completions []TaskCompletion `json:"completions"`
}

type UpdateTaskRequest struct {
	Day         int            `uri:"day" json:"-"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	TaskType    *string        `json:"task_type"`
	TaskConfig  map[string]any `json:"task_config"`
	Points      *int64         `json:"points"`
	IsOpen      *bool          `json:"is_open"`
	IsClosed    *bool          `json:"is_closed"`
}

type UpdateTaskResponse struct {
	Task Task `json:"task"`
}

type CompleteTaskRequest struct {
	Day int `uri:"day" json:"-"`
	taskclaim.Submission
}

type CompleteTaskResponse struct {
	Points        int64    `json:"points"`
	TotalPoints   int64    `json:"total_points"`
	NewTickets    int      `json:"new_tickets"`
	TicketNumbers []string `json:"ticket_numbers,omitempty"`
}
