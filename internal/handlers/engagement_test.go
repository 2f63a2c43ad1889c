package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeQuestion(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Proud of this one?", answered("Very."))

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/questions/%d/likes", question.ID),
		nil, authCookie(t, fan))
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["likes"])

	assert.Equal(t, int64(1), countLikes(t, question.ID))
	assert.Equal(t, 1, reloadQuestion(t, question.ID).Likes)
}

func TestLikeQuestionTwice(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Proud of this one?", answered("Very."))

	path := fmt.Sprintf("/api/questions/%d/likes", question.ID)
	cookie := authCookie(t, fan)

	w := doRequest(t, r, http.MethodPost, path, nil, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPost, path, nil, cookie)
	require.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, int64(1), countLikes(t, question.ID))
	assert.Equal(t, 1, reloadQuestion(t, question.ID).Likes)
}

func TestLikeUnansweredQuestion(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Not public yet.")

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/questions/%d/likes", question.ID),
		nil, authCookie(t, fan))
	require.Equal(t, http.StatusForbidden, w.Code)

	assert.Zero(t, countLikes(t, question.ID))
}

func TestUnlikeQuestion(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Proud of this one?", answered("Very."), func(q *models.Question) {
		q.Likes = 1
	})

	require.NoError(t, db.DB.Create(&models.Like{QuestionID: question.ID, UserID: &fan.ID}).Error)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/questions/%d/likes", question.ID),
		nil, authCookie(t, fan))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["likes"])

	assert.Zero(t, countLikes(t, question.ID))
	assert.Zero(t, reloadQuestion(t, question.ID).Likes)
}

func TestUnlikeNeverLiked(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Proud of this one?", answered("Very."))

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/questions/%d/likes", question.ID),
		nil, authCookie(t, fan))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Zero(t, reloadQuestion(t, question.ID).Likes)
}
