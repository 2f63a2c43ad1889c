package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/auth"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/types"
	"github.com/askbox/askbox/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

const sessionMaxAge = 60 * 60 * 24 * 15

func setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     types.SessionCookie,
		Value:    value,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func Signup(ctx *gin.Context) {
	var req SignupRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var fieldErrors []utils.FieldError

	for _, e := range []*utils.FieldError{
		utils.ValidateName("first_name", req.FirstName),
		utils.ValidateName("last_name", req.LastName),
		utils.ValidateUsername(req.Username),
		utils.ValidateEmail(req.Email),
		utils.ValidatePassword(req.Password),
	} {
		if e != nil {
			fieldErrors = append(fieldErrors, *e)
		}
	}

	if len(fieldErrors) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	var existing models.User

	if err := db.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		fieldErrors = append(fieldErrors, utils.FieldError{Field: "username", Message: "Username already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing username: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		fieldErrors = append(fieldErrors, utils.FieldError{Field: "email", Message: "Email already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing email: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if len(fieldErrors) > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"errors": fieldErrors})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   string(passwordHash),
		AllowAnonymous: true,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": userResponse(newUser)})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	login := strings.ToLower(strings.TrimSpace(req.Login))

	var user models.User

	err := db.DB.Where("username = ? OR email = ?", req.Login, login).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": gin.H{"field": "login", "message": "User not found"}})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"field": "password", "message": "Invalid password"}})
		return
	}

	token, err := auth.GenerateJWT(user.ID)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, token, sessionMaxAge)

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func Logout(ctx *gin.Context) {
	setSessionCookie(ctx, "", -1)
	ctx.Status(http.StatusNoContent)
}
