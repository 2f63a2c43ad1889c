package handlers

import (
	"log"
	"net/http"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/query"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
)

// GetInbox lists the actor's unanswered questions: search over the question
// text, category axis, created_at order, page window.
func GetInbox(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	opts, err := query.ParseOptions(ctx.Request.URL.Query(), true)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if categoryID, concrete := opts.Category.ID(); concrete {
		owns, err := ownsCategory(userID, categoryID)

		if err != nil {
			log.Printf("Failed to check category ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !owns {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User does not have such category"})
			return
		}
	}

	tx := db.DB.WithContext(ctx.Request.Context()).
		Preload("FromUser").
		Where("to_user_id = ? AND answer = ''", userID)

	var questions []models.Question

	if err := opts.Apply(tx, "created_at", "question").Find(&questions).Error; err != nil {
		log.Printf("Failed to query inbox: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inbox"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"page": opts.Page, "questions": questionResponses(questions)})
}

// GetUserFeed lists a user's answered questions for any viewer. Search spans
// both the question and the answer; order follows answered_at.
func GetUserFeed(ctx *gin.Context) {
	target, found, err := resolveHandle(ctx.Param("handle"))

	if err != nil {
		log.Printf("Failed to resolve handle: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	opts, err := query.ParseOptions(ctx.Request.URL.Query(), true)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if categoryID, concrete := opts.Category.ID(); concrete {
		owns, err := ownsCategory(target.ID, categoryID)

		if err != nil {
			log.Printf("Failed to check category ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !owns {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User does not have such category"})
			return
		}
	}

	tx := db.DB.WithContext(ctx.Request.Context()).
		Preload("FromUser").
		Where("to_user_id = ? AND answer <> ''", target.ID)

	var questions []models.Question

	if err := opts.Apply(tx, "answered_at", "question", "answer").Find(&questions).Error; err != nil {
		log.Printf("Failed to query feed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve answers"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"page": opts.Page, "questions": questionResponses(questions)})
}

// SearchQuestions is the global view: every answered question on the
// platform. There is no category axis here; categories are per-user.
func SearchQuestions(ctx *gin.Context) {
	opts, err := query.ParseOptions(ctx.Request.URL.Query(), false)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := db.DB.WithContext(ctx.Request.Context()).
		Preload("FromUser").
		Where("answer <> ''")

	var questions []models.Question

	if err := opts.Apply(tx, "answered_at", "question", "answer").Find(&questions).Error; err != nil {
		log.Printf("Failed to search questions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search questions"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"page": opts.Page, "questions": questionResponses(questions)})
}
