package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// adjustCounter moves a denormalized engagement counter by delta as a single
// atomic column update. Counters are never read-modified-written in the
// application; concurrent likes must not lose updates.
func adjustCounter(questionID uint, column string, delta int) error {
	return db.DB.Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// requireAnswered gates engagement: only public (answered) questions can be
// liked or commented on.
func requireAnswered(ctx *gin.Context, question models.Question, action string) bool {
	if !question.IsAnswered() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to " + action + " this question"})
		return false
	}
	return true
}

func LikeQuestion(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	question, ok := fetchQuestion(ctx, true)

	if !ok {
		return
	}

	if !requireAnswered(ctx, question, "like") {
		return
	}

	// Pair row first, counter second: a crash in between leaves an
	// undercount, never an overcount.
	like := models.Like{QuestionID: question.ID, UserID: &userID}

	if err := db.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Answer is already liked"})
			return
		}
		log.Printf("Failed to create like: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like answer"})
		return
	}

	if err := adjustCounter(question.ID, "likes", 1); err != nil {
		log.Printf("Failed to increment likes for question %d: %v", question.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like answer"})
		return
	}

	question.Likes++

	ctx.JSON(http.StatusCreated, questionResponse(question))
}

func UnlikeQuestion(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	question, ok := fetchQuestion(ctx, true)

	if !ok {
		return
	}

	if !requireAnswered(ctx, question, "unlike") {
		return
	}

	result := db.DB.Where("question_id = ? AND user_id = ?", question.ID, userID).Delete(&models.Like{})

	if result.Error != nil {
		log.Printf("Failed to delete like: %v", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike answer"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Answer is already unliked"})
		return
	}

	if err := adjustCounter(question.ID, "likes", -1); err != nil {
		log.Printf("Failed to decrement likes for question %d: %v", question.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike answer"})
		return
	}

	question.Likes--

	ctx.JSON(http.StatusOK, questionResponse(question))
}
