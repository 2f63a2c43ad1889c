package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/types"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// "general" is the implicit default bucket; it never exists as a row and the
// name stays reserved so a stored category can't shadow it.
func validateCategoryName(name string) (string, string) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", "Category name is required"
	}

	if strings.EqualFold(name, "general") {
		return "", "general is a reserved category name"
	}

	return name, ""
}

func ListCategories(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var categories []models.Category

	if err := db.DB.Where("user_id = ?", userID).Order("id ASC").Find(&categories).Error; err != nil {
		log.Printf("Failed to list categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	responses := make([]types.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, categoryResponse(category))
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": responses})
}

func CreateCategory(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CategoryRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	name, msg := validateCategoryName(req.Name)

	if msg != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	category := models.Category{UserID: userID, Name: name}

	if err := db.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": name + " category already exists"})
			return
		}
		log.Printf("Failed to create category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	ctx.JSON(http.StatusCreated, categoryResponse(category))
}

func GetCategory(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categoryID, err := utils.GetCategoryID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category

	if err := db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			log.Printf("Failed to fetch category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	ctx.JSON(http.StatusOK, categoryResponse(category))
}

// RenameCategory changes the name in place; the id is stable, so questions
// pointing at the category follow the rename for free.
func RenameCategory(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categoryID, err := utils.GetCategoryID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req CategoryRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	name, msg := validateCategoryName(req.Name)

	if msg != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var category models.Category

	if err := db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			log.Printf("Failed to fetch category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	if err := db.DB.Model(&category).Update("name", name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": name + " category already exists"})
			return
		}
		log.Printf("Failed to rename category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename category"})
		return
	}

	ctx.JSON(http.StatusOK, categoryResponse(category))
}

// DeleteCategory removes the row and detaches every question pointing at it.
// The questions themselves always survive and fall back to general.
func DeleteCategory(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categoryID, err := utils.GetCategoryID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category

	if err := db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			log.Printf("Failed to fetch category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Question{}).
			Where("to_user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})

	if err != nil {
		log.Printf("Failed to delete category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	ctx.JSON(http.StatusOK, categoryResponse(category))
}
