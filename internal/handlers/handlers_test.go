package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/auth"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/router"
	"github.com/askbox/askbox/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Password1!"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "askbox-test-secret")
	require.NoError(t, auth.InitJWTSecret())

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", name)
	require.NoError(t, db.ConnectDatabase(dsn))
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func createUser(t *testing.T, username string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		FirstName:      "Test",
		LastName:       "User",
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   string(hash),
		AllowAnonymous: true,
	}

	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func createQuestion(t *testing.T, from *models.User, to models.User, text string, mutate ...func(*models.Question)) models.Question {
	t.Helper()

	question := models.Question{
		ToUserID: to.ID,
		Question: text,
	}

	if from != nil {
		question.FromUserID = &from.ID
	}

	for _, m := range mutate {
		m(&question)
	}

	require.NoError(t, db.DB.Create(&question).Error)

	return question
}

func answered(text string) func(*models.Question) {
	return func(q *models.Question) {
		q.Answer = text
		now := time.Now()
		q.AnsweredAt = &now
	}
}

func anonymous(q *models.Question) {
	q.IsAnonymous = true
}

func authCookie(t *testing.T, user models.User) *http.Cookie {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID)
	require.NoError(t, err)

	return &http.Cookie{Name: types.SessionCookie, Value: token}
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func countLikes(t *testing.T, questionID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Like{}).Where("question_id = ?", questionID).Count(&count).Error)

	return count
}

func countComments(t *testing.T, questionID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Comment{}).Where("question_id = ?", questionID).Count(&count).Error)

	return count
}

func reloadQuestion(t *testing.T, id uint) models.Question {
	t.Helper()

	var question models.Question
	require.NoError(t, db.DB.First(&question, id).Error)

	return question
}
