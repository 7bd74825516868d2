package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
)

// TaskRequest defines the payload for creating or replacing a task.
// An ID is optional on create and ignored on update.
type TaskRequest struct {
	ID            string `json:"id"            validate:"omitempty,uuid"`
	UserID        string `json:"userId"        validate:"required,uuid"`
	CurrentDate   string `json:"currentDate"   validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"startTime"     validate:"required"`
	EndTime       string `json:"endTime"       validate:"required"`
	Subject       string `json:"subject"       validate:"required,max=200"`
	Description   string `json:"description"`
	IsCurrentDate bool   `json:"isCurrentDate"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	CurrentDate   string `json:"currentDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	IsCurrentDate bool   `json:"isCurrentDate"`
}

// TaskGroupResponse holds the tasks scheduled on one date.
type TaskGroupResponse struct {
	Date  string         `json:"date"`
	Tasks []TaskResponse `json:"tasks"`
}

// toDomain converts a validated request into a task. The ID is generated
// when the request carries none.
func (req *TaskRequest) toDomain() (*domain.Task, error) {
	id := uuid.Nil
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID)
		}
		id = parsed
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, domain.NewValidationError("userId", "has invalid format", domain.ErrInvalidID)
	}

	date, err := domain.ParseDate(req.CurrentDate)
	if err != nil {
		return nil, err
	}

	start, err := domain.ParseClock(req.StartTime)
	if err != nil {
		return nil, domain.NewValidationError("startTime", "must use HH:MM:SS", domain.ErrInvalidFormat)
	}

	end, err := domain.ParseClock(req.EndTime)
	if err != nil {
		return nil, domain.NewValidationError("endTime", "must use HH:MM:SS", domain.ErrInvalidFormat)
	}

	return domain.NewTask(id, userID, date, start, end, req.Subject, req.Description, req.IsCurrentDate)
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID.String(),
		UserID:        task.UserID.String(),
		CurrentDate:   formatDate(task.Date),
		StartTime:     domain.FormatClock(task.StartTime),
		EndTime:       domain.FormatClock(task.EndTime),
		Subject:       task.Subject,
		Description:   task.Description,
		IsCurrentDate: task.AlwaysCurrent,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}

func groupsToResponse(groups []*domain.TaskGroup) []TaskGroupResponse {
	out := make([]TaskGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, TaskGroupResponse{
			Date:  formatDate(g.Date),
			Tasks: tasksToResponse(g.Tasks),
		})
	}
	return out
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}
