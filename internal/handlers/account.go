package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateAccountRequest struct {
	FirstName      *string         `json:"first_name"`
	LastName       *string         `json:"last_name"`
	Username       *string         `json:"username"`
	Email          *string         `json:"email"`
	Avatar         *string         `json:"avatar"`
	Bio            *string         `json:"bio"`
	Socials        json.RawMessage `json:"socials"`
	AllowAnonymous *bool           `json:"allow_anonymous"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

func GetAccount(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// UpdateAccount applies a batch of profile fields. Invalid fields are
// reported per field while the valid ones still go through, mirroring the
// partial-success contract of the settings page.
func UpdateAccount(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateAccountRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fieldErrors := []utils.FieldError{}
	updates := make(map[string]interface{})

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if e := utils.ValidateName("first_name", name); e != nil {
			fieldErrors = append(fieldErrors, *e)
		} else {
			updates["first_name"] = name
		}
	}

	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if e := utils.ValidateName("last_name", name); e != nil {
			fieldErrors = append(fieldErrors, *e)
		} else {
			updates["last_name"] = name
		}
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if e := utils.ValidateUsername(username); e != nil {
			fieldErrors = append(fieldErrors, *e)
		} else if username != user.Username {
			var existing models.User
			err := db.DB.Where("username = ? AND id != ?", username, user.ID).First(&existing).Error
			if err == nil {
				fieldErrors = append(fieldErrors, utils.FieldError{Field: "username", Message: "Username already exists"})
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing username: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			} else {
				updates["username"] = username
			}
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if e := utils.ValidateEmail(email); e != nil {
			fieldErrors = append(fieldErrors, *e)
		} else if email != user.Email {
			var existing models.User
			err := db.DB.Where("email = ? AND id != ?", email, user.ID).First(&existing).Error
			if err == nil {
				fieldErrors = append(fieldErrors, utils.FieldError{Field: "email", Message: "Email already exists"})
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing email: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			} else {
				updates["email"] = email
			}
		}
	}

	if req.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*req.Avatar)
	}

	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}

	if req.Socials != nil {
		if !json.Valid(req.Socials) {
			fieldErrors = append(fieldErrors, utils.FieldError{Field: "socials", Message: "Invalid socials payload"})
		} else {
			updates["socials"] = []byte(req.Socials)
		}
	}

	if req.AllowAnonymous != nil {
		updates["allow_anonymous"] = *req.AllowAnonymous
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("Failed to update user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	if err := db.DB.First(&user, user.ID).Error; err != nil {
		log.Printf("Failed to refresh user data: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"errors": fieldErrors, "user": userResponse(user)})
}

func UpdatePassword(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdatePasswordRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect old password"})
		return
	}

	if e := utils.ValidatePassword(req.Password); e != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash new password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(&user).Update("password_hash", string(passwordHash)).Error; err != nil {
		log.Printf("Failed to update password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteAccount removes the user and everything hanging off it: owned
// categories, received questions with their engagement, and authorship on
// rows that survive (questions asked, likes and comments left elsewhere).
func DeleteAccount(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password is required for account deletion"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		received := tx.Model(&models.Question{}).Select("id").Where("to_user_id = ?", user.ID)

		if err := tx.Where("question_id IN (?)", received).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id IN (?)", received).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("to_user_id = ?", user.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		// The asker is gone, not anonymous: the reference is cleared for good.
		if err := tx.Model(&models.Question{}).Where("from_user_id = ?", user.ID).Update("from_user_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Like{}).Where("user_id = ?", user.ID).Update("user_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Comment{}).Where("user_id = ?", user.ID).Update("user_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Category{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, user.ID).Error
	})

	if err != nil {
		log.Printf("Failed to delete account %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, "", -1)
	ctx.Status(http.StatusNoContent)
}
