package handlers

import (
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/types"
)

func userSummary(u *models.User) *types.UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &types.UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

// authorOf collapses (isAnonymous, author-reference) into the display
// variant. The stored reference survives anonymity; only the projection
// hides it.
func authorOf(isAnonymous bool, userID *uint, user *models.User) types.Author {
	switch {
	case isAnonymous:
		return types.Author{Type: types.AuthorAnonymous}
	case userID == nil:
		return types.Author{Type: types.AuthorDeleted}
	default:
		return types.Author{Type: types.AuthorNamed, User: userSummary(user)}
	}
}

func questionResponse(q models.Question) types.QuestionResponse {
	return types.QuestionResponse{
		ID:         q.ID,
		Author:     authorOf(q.IsAnonymous, q.FromUserID, q.FromUser),
		ToUserID:   q.ToUserID,
		Question:   q.Question,
		Answer:     q.Answer,
		IsAnswered: q.IsAnswered(),
		CategoryID: q.CategoryID,
		CreatedAt:  q.CreatedAt,
		AnsweredAt: q.AnsweredAt,
		Likes:      q.Likes,
		Comments:   q.Comments,
	}
}

func questionResponses(questions []models.Question) []types.QuestionResponse {
	responses := make([]types.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, questionResponse(q))
	}
	return responses
}

func commentResponse(c models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:         c.ID,
		QuestionID: c.QuestionID,
		Author:     authorOf(false, c.UserID, c.User),
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

func userResponse(u models.User) types.UserResponse {
	return types.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		AllowAnonymous: u.AllowAnonymous,
		Followers:      u.Followers,
		Following:      u.Following,
		Socials:        u.Socials,
	}
}

func categoryResponse(c models.Category) types.CategoryResponse {
	return types.CategoryResponse{ID: c.ID, Name: c.Name}
}
