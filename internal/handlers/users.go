package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/query"
	"github.com/askbox/askbox/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// resolveHandle accepts either a numeric user id or a username.
func resolveHandle(handle string) (models.User, bool, error) {
	var user models.User

	tx := db.DB

	if id, err := strconv.ParseUint(handle, 10, 32); err == nil {
		tx = tx.Where("id = ?", uint(id))
	} else {
		tx = tx.Where("username = ?", handle)
	}

	if err := tx.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	return user, true, nil
}

// SearchUsers matches the query against names, username, and bio.
func SearchUsers(ctx *gin.Context) {
	values := ctx.Request.URL.Query()

	opts, err := query.ParseOptions(values, false)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := db.DB.WithContext(ctx.Request.Context()).Model(&models.User{})
	tx = opts.Text.Apply(tx, "first_name", "last_name", "username", "bio")

	var users []models.User

	err = tx.Order("id ASC").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&users).Error

	if err != nil {
		log.Printf("Failed to search users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	responses := make([]types.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userResponse(user))
	}

	ctx.JSON(http.StatusOK, gin.H{"page": opts.Page, "users": responses})
}

// GetProfile serves a public profile with its category set.
func GetProfile(ctx *gin.Context) {
	user, found, err := resolveHandle(ctx.Param("handle"))

	if err != nil {
		log.Printf("Failed to resolve handle: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var categories []models.Category

	if err := db.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&categories).Error; err != nil {
		log.Printf("Failed to list profile categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	categoryResponses := make([]types.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		categoryResponses = append(categoryResponses, categoryResponse(category))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":       userResponse(user),
		"categories": categoryResponses,
	})
}
