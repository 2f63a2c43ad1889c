package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/cleanup"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AskQuestionRequest struct {
	Question    string `json:"question" binding:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
	CategoryID  *uint  `json:"category_id"`
}

type AnswerQuestionRequest struct {
	Answer     string `json:"answer" binding:"required"`
	CategoryID *uint  `json:"category_id"`
}

type MoveCategoryRequest struct {
	Category string `json:"category"`
}

func ownsCategory(userID, categoryID uint) (bool, error) {
	var category models.Category

	err := db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// fetchQuestion loads a question by the URL parameter; the bool reports
// whether the handler should return (the response has been written).
func fetchQuestion(ctx *gin.Context, preloadAuthor bool) (models.Question, bool) {
	questionID, err := utils.GetQuestionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Question{}, false
	}

	tx := db.DB

	if preloadAuthor {
		tx = tx.Preload("FromUser")
	}

	var question models.Question

	if err := tx.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		} else {
			log.Printf("Failed to fetch question: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve question"})
		}
		return models.Question{}, false
	}

	return question, true
}

// requireOwner enforces the existence-then-ownership order: a missing
// question is 404 (handled in fetchQuestion), someone else's question is 403.
func requireOwner(ctx *gin.Context, question models.Question) bool {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return false
	}

	if question.ToUserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this question"})
		return false
	}

	return true
}

func AskQuestion(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AskQuestionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	req.Question = strings.TrimSpace(req.Question)

	if req.Question == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	toUser, found, err := resolveHandle(ctx.Param("handle"))

	if err != nil {
		log.Printf("Failed to resolve handle: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.IsAnonymous && !toUser.AllowAnonymous {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"field": "is_anonymous", "message": "User does not allow anonymous questions"},
		})
		return
	}

	if req.CategoryID != nil {
		owns, err := ownsCategory(toUser.ID, *req.CategoryID)

		if err != nil {
			log.Printf("Failed to check category ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !owns {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"field": "category_id", "message": "User does not have such category"},
			})
			return
		}
	}

	question := models.Question{
		FromUserID:  &user.ID,
		ToUserID:    toUser.ID,
		Question:    req.Question,
		IsAnonymous: req.IsAnonymous,
		CategoryID:  req.CategoryID,
	}

	if err := db.DB.Create(&question).Error; err != nil {
		log.Printf("Failed to create question: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Question created successfully", "question_id": question.ID})
}

// GetQuestion serves a single question. Answered questions are public;
// unanswered ones exist only for their owner.
func GetQuestion(ctx *gin.Context) {
	question, ok := fetchQuestion(ctx, true)

	if !ok {
		return
	}

	if question.IsAnswered() {
		ctx.JSON(http.StatusOK, questionResponse(question))
		return
	}

	if !requireOwner(ctx, question) {
		return
	}

	ctx.JSON(http.StatusOK, questionResponse(question))
}

func AnswerQuestion(ctx *gin.Context) {
	question, ok := fetchQuestion(ctx, true)

	if !ok {
		return
	}

	if !requireOwner(ctx, question) {
		return
	}

	var req AnswerQuestionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Answer is required"})
		return
	}

	req.Answer = strings.TrimSpace(req.Answer)

	if req.Answer == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Answer is required"})
		return
	}

	if req.CategoryID != nil {
		owns, err := ownsCategory(question.ToUserID, *req.CategoryID)

		if err != nil {
			log.Printf("Failed to check category ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !owns {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"field": "category_id", "message": "User does not have such category"},
			})
			return
		}

		question.CategoryID = req.CategoryID
	}

	question.Answer = req.Answer
	// Re-answering refreshes the timestamp; it doubles as "last edited".
	now := time.Now()
	question.AnsweredAt = &now

	if err := db.DB.Save(&question).Error; err != nil {
		log.Printf("Failed to answer question: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer question"})
		return
	}

	ctx.JSON(http.StatusOK, questionResponse(question))
}

// EraseAnswer transitions the question back to unanswered: the answer and
// its engagement go away, the question text and inbox placement survive.
func EraseAnswer(ctx *gin.Context) {
	question, ok := fetchQuestion(ctx, false)

	if !ok {
		return
	}

	if !requireOwner(ctx, question) {
		return
	}

	if !question.IsAnswered() {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Question is not answered"})
		return
	}

	question.Answer = ""
	question.AnsweredAt = nil
	question.Likes = 0
	question.Comments = 0

	if err := db.DB.Save(&question).Error; err != nil {
		log.Printf("Failed to erase answer: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to erase answer"})
		return
	}

	cleanup.Enqueue(question.ID)

	ctx.Status(http.StatusNoContent)
}

func MoveCategory(ctx *gin.Context) {
	question, ok := fetchQuestion(ctx, true)

	if !ok {
		return
	}

	if !requireOwner(ctx, question) {
		return
	}

	var req MoveCategoryRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	raw := strings.ToLower(strings.TrimSpace(req.Category))

	var categoryID *uint

	if raw != "" && raw != "general" {
		id, err := strconv.ParseUint(raw, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
			return
		}

		owns, err := ownsCategory(question.ToUserID, uint(id))

		if err != nil {
			log.Printf("Failed to check category ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !owns {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"field": "category", "message": "User does not have such category"},
			})
			return
		}

		target := uint(id)
		categoryID = &target
	}

	question.CategoryID = categoryID

	if err := db.DB.Save(&question).Error; err != nil {
		log.Printf("Failed to move question category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move question"})
		return
	}

	ctx.JSON(http.StatusOK, questionResponse(question))
}

func DeleteQuestion(ctx *gin.Context) {
	question, ok := fetchQuestion(ctx, false)

	if !ok {
		return
	}

	if !requireOwner(ctx, question) {
		return
	}

	if err := db.DB.Delete(&question).Error; err != nil {
		log.Printf("Failed to delete question: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}

	cleanup.Enqueue(question.ID)

	ctx.Status(http.StatusNoContent)
}
