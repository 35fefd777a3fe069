package handlers

import (
	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/service"
)

func userResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		UserName:  u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	return out
}

func userReference(id string, ref *domain.UserRef) dto.UserReference {
	if ref == nil {
		return dto.UserReference{ID: id}
	}
	return dto.UserReference{ID: ref.ID, UserName: ref.Name, Email: ref.Email, Populated: true}
}

func taskReference(id string, ref *domain.TaskRef) dto.TaskReference {
	if ref == nil {
		return dto.TaskReference{ID: id}
	}
	return dto.TaskReference{ID: ref.ID, Title: ref.Title, Populated: true}
}

func taskResponse(v service.TaskView) dto.TaskResponse {
	t := v.Task
	resp := dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		AssignedTo:  userReference(t.AssignedTo, v.AssignedTo),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if v.Comments != nil {
		resp.Comments = commentResponses(v.Comments)
	}
	return resp
}

func taskResponses(views []service.TaskView) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(views))
	for _, v := range views {
		out = append(out, taskResponse(v))
	}
	return out
}

func commentResponse(v service.CommentView) dto.CommentResponse {
	c := v.Comment
	return dto.CommentResponse{
		ID:        c.ID,
		TaskID:    taskReference(c.TaskID, v.Task),
		AuthorID:  userReference(c.AuthorID, v.Author),
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func commentResponses(views []service.CommentView) []dto.CommentResponse {
	out := make([]dto.CommentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, commentResponse(v))
	}
	return out
}

func activityResponses(entries []domain.Activity) []dto.ActivityResponse {
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityResponse{
			ID:         e.ID,
			Type:       e.Type,
			ActorID:    e.ActorID,
			SubjectID:  e.SubjectID,
			Summary:    e.Summary,
			OccurredAt: e.OccurredAt,
		})
	}
	return out
}
