package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/query"
	"github.com/askbox/askbox/internal/types"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListComments serves a question's thread, oldest first. The thread is
// public once the question is answered; before that only the owner sees it.
func ListComments(ctx *gin.Context) {
	question, ok := fetchQuestion(ctx, false)

	if !ok {
		return
	}

	if !question.IsAnswered() && !requireOwner(ctx, question) {
		return
	}

	values := ctx.Request.URL.Query()
	page := query.ParsePage(values.Get("page"))
	limit := query.ParseLimit(values.Get("limit"))

	var comments []models.Comment

	err := db.DB.WithContext(ctx.Request.Context()).
		Preload("User").
		Where("question_id = ?", question.ID).
		Order("created_at ASC").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error

	if err != nil {
		log.Printf("Failed to list comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	responses := make([]types.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, commentResponse(comment))
	}

	ctx.JSON(http.StatusOK, gin.H{"page": page, "comments": responses})
}

func AddComment(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	question, ok := fetchQuestion(ctx, false)

	if !ok {
		return
	}

	if !requireAnswered(ctx, question, "comment on") {
		return
	}

	var req CommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	req.Content = strings.TrimSpace(req.Content)

	if req.Content == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	comment := models.Comment{
		QuestionID: question.ID,
		UserID:     &user.ID,
		Content:    req.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to create comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if err := adjustCounter(question.ID, "comments", 1); err != nil {
		log.Printf("Failed to increment comments for question %d: %v", question.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	comment.User = &user

	ctx.JSON(http.StatusCreated, commentResponse(comment))
}

func fetchComment(ctx *gin.Context) (models.Comment, bool) {
	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Comment{}, false
	}

	var comment models.Comment

	if err := db.DB.Preload("User").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			log.Printf("Failed to fetch comment: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		}
		return models.Comment{}, false
	}

	return comment, true
}

// EditComment is author-only; even the question owner cannot rewrite someone
// else's words.
func EditComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment, ok := fetchComment(ctx)

	if !ok {
		return
	}

	if comment.UserID == nil || *comment.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this comment"})
		return
	}

	var req CommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	req.Content = strings.TrimSpace(req.Content)

	if req.Content == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	comment.Content = req.Content

	if err := db.DB.Save(&comment).Error; err != nil {
		log.Printf("Failed to edit comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to edit comment"})
		return
	}

	ctx.JSON(http.StatusOK, commentResponse(comment))
}

// DeleteComment is allowed for the comment's author and for the question's
// owner, who moderates their own thread.
func DeleteComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment, ok := fetchComment(ctx)

	if !ok {
		return
	}

	var question models.Question

	if err := db.DB.First(&question, comment.QuestionID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to fetch question for comment: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
			return
		}
	}

	isAuthor := comment.UserID != nil && *comment.UserID == userID
	isOwner := question.ID != 0 && question.ToUserID == userID

	if !isAuthor && !isOwner {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this comment"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		log.Printf("Failed to delete comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	if question.ID != 0 {
		if err := adjustCounter(question.ID, "comments", -1); err != nil {
			log.Printf("Failed to decrement comments for question %d: %v", question.ID, err)
		}
	}

	ctx.Status(http.StatusNoContent)
}
