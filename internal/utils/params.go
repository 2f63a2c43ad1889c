package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("missing " + name)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(id), nil
}

func GetQuestionID(ctx *gin.Context) (uint, error) {
	id, err := parseIDParam(ctx, "question_id")

	if err != nil {
		return 0, errors.New("Invalid question ID")
	}

	return id, nil
}

func GetCategoryID(ctx *gin.Context) (uint, error) {
	id, err := parseIDParam(ctx, "category_id")

	if err != nil {
		return 0, errors.New("Invalid category ID")
	}

	return id, nil
}

func GetCommentID(ctx *gin.Context) (uint, error) {
	id, err := parseIDParam(ctx, "comment_id")

	if err != nil {
		return 0, errors.New("Invalid comment ID")
	}

	return id, nil
}
