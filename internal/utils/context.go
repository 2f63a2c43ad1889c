package utils

import (
	"fmt"

	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (models.User, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return models.User{}, fmt.Errorf("user not authenticated")
	}

	currentUser, ok := user.(models.User)

	if !ok {
		return models.User{}, fmt.Errorf("invalid user type in context")
	}

	return currentUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
