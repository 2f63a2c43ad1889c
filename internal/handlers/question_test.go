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

func TestAskQuestion(t *testing.T) {
	r := setupRouter(t)
	asker := createUser(t, "ada")
	target := createUser(t, "grace")

	w := doRequest(t, r, http.MethodPost, "/api/users/grace/questions", map[string]interface{}{
		"question": "What are you working on?",
	}, authCookie(t, asker))

	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	question := reloadQuestion(t, uint(body["question_id"].(float64)))
	assert.Equal(t, target.ID, question.ToUserID)
	require.NotNil(t, question.FromUserID)
	assert.Equal(t, asker.ID, *question.FromUserID)
	assert.False(t, question.IsAnonymous)
	assert.False(t, question.IsAnswered())
}

func TestAskQuestionAnonymousDisallowed(t *testing.T) {
	r := setupRouter(t)
	asker := createUser(t, "ada")
	target := createUser(t, "grace")

	require.NoError(t, db.DB.Model(&target).Update("allow_anonymous", false).Error)

	w := doRequest(t, r, http.MethodPost, "/api/users/grace/questions", map[string]interface{}{
		"question":     "Who are you really?",
		"is_anonymous": true,
	}, authCookie(t, asker))

	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	fieldErr := body["error"].(map[string]interface{})
	assert.Equal(t, "is_anonymous", fieldErr["field"])

	var count int64
	require.NoError(t, db.DB.Model(&models.Question{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAskQuestionCategoryMustBelongToTarget(t *testing.T) {
	r := setupRouter(t)
	asker := createUser(t, "ada")
	createUser(t, "grace")
	wrong := createCategory(t, asker, "Mine")

	w := doRequest(t, r, http.MethodPost, "/api/users/grace/questions", map[string]interface{}{
		"question":    "Where do you file this?",
		"category_id": wrong.ID,
	}, authCookie(t, asker))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskQuestionUnknownTarget(t *testing.T) {
	r := setupRouter(t)
	asker := createUser(t, "ada")

	w := doRequest(t, r, http.MethodPost, "/api/users/nobody/questions", map[string]interface{}{
		"question": "Anyone home?",
	}, authCookie(t, asker))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetQuestionVisibility(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	stranger := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Still thinking?")

	path := fmt.Sprintf("/api/questions/%d", question.ID)

	w := doRequest(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, path, nil, authCookie(t, stranger))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, path, nil, authCookie(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/questions/999999", nil, authCookie(t, owner))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAnsweredQuestionIsPublic(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	question := createQuestion(t, &asker, owner, "Favourite machine?", answered("The Mark I."))

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/questions/%d", question.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_answered"])
	assert.Equal(t, "The Mark I.", body["answer"])

	author := body["author"].(map[string]interface{})
	assert.Equal(t, "named", author["type"])
	assert.Equal(t, "ada", author["user"].(map[string]interface{})["username"])
}

func TestAnonymousAuthorHidden(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	question := createQuestion(t, &asker, owner, "Guess who?", answered("No idea."), anonymous)

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/questions/%d", question.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	author := decodeBody(t, w)["author"].(map[string]interface{})
	assert.Equal(t, "anonymous", author["type"])
	assert.Nil(t, author["user"])

	// The link survives in storage even though responses never expose it.
	got := reloadQuestion(t, question.ID)
	require.NotNil(t, got.FromUserID)
	assert.Equal(t, asker.ID, *got.FromUserID)
}

func TestAnswerQuestion(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	stranger := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Compiler or interpreter?")

	path := fmt.Sprintf("/api/questions/%d", question.ID)
	payload := map[string]interface{}{"answer": "Compiler."}

	w := doRequest(t, r, http.MethodPut, path, payload, authCookie(t, stranger))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPut, path, payload, authCookie(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_answered"])
	assert.NotNil(t, body["answered_at"])

	got := reloadQuestion(t, question.ID)
	assert.Equal(t, "Compiler.", got.Answer)
	require.NotNil(t, got.AnsweredAt)
}

func TestReAnswerRefreshesTimestamp(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	question := createQuestion(t, &asker, owner, "Coffee or tea?", answered("Tea."))
	first := *reloadQuestion(t, question.ID).AnsweredAt

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/questions/%d", question.ID),
		map[string]interface{}{"answer": "Coffee, actually."}, authCookie(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	got := reloadQuestion(t, question.ID)
	assert.Equal(t, "Coffee, actually.", got.Answer)
	require.NotNil(t, got.AnsweredAt)
	assert.True(t, got.AnsweredAt.After(first) || got.AnsweredAt.Equal(first))
}

func TestEraseAnswerResetsEngagement(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Best bug story?", answered("The moth."), func(q *models.Question) {
		q.Likes = 1
		q.Comments = 1
	})

	require.NoError(t, db.DB.Create(&models.Like{QuestionID: question.ID, UserID: &fan.ID}).Error)
	require.NoError(t, db.DB.Create(&models.Comment{QuestionID: question.ID, UserID: &fan.ID, Content: "Classic."}).Error)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/questions/%d/answer", question.ID),
		nil, authCookie(t, owner))
	require.Equal(t, http.StatusNoContent, w.Code)

	got := reloadQuestion(t, question.ID)
	assert.Equal(t, "Best bug story?", got.Question)
	assert.False(t, got.IsAnswered())
	assert.Nil(t, got.AnsweredAt)
	assert.Zero(t, got.Likes)
	assert.Zero(t, got.Comments)
	assert.Zero(t, countLikes(t, question.ID))
	assert.Zero(t, countComments(t, question.ID))
}

func TestEraseAnswerOnUnanswered(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	question := createQuestion(t, &asker, owner, "Still waiting?")

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/questions/%d/answer", question.ID),
		nil, authCookie(t, owner))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoveQuestionCategory(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	category := createCategory(t, owner, "Work")
	question := createQuestion(t, &asker, owner, "Where does this go?")

	path := fmt.Sprintf("/api/questions/%d/category", question.ID)

	w := doRequest(t, r, http.MethodPatch, path,
		map[string]interface{}{"category": fmt.Sprint(category.ID)}, authCookie(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	got := reloadQuestion(t, question.ID)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, category.ID, *got.CategoryID)

	w = doRequest(t, r, http.MethodPatch, path,
		map[string]interface{}{"category": "general"}, authCookie(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	got = reloadQuestion(t, question.ID)
	assert.Nil(t, got.CategoryID)
}

func TestMoveQuestionCategoryInvalid(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	other := createUser(t, "alan")
	foreign := createCategory(t, other, "Theirs")
	question := createQuestion(t, &asker, owner, "Where does this go?")

	path := fmt.Sprintf("/api/questions/%d/category", question.ID)

	w := doRequest(t, r, http.MethodPatch, path,
		map[string]interface{}{"category": "not-a-number"}, authCookie(t, owner))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPatch, path,
		map[string]interface{}{"category": fmt.Sprint(foreign.ID)}, authCookie(t, owner))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteQuestionCascades(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	fan := createUser(t, "alan")
	question := createQuestion(t, &asker, owner, "Going away?", answered("Yes."))

	require.NoError(t, db.DB.Create(&models.Like{QuestionID: question.ID, UserID: &fan.ID}).Error)
	require.NoError(t, db.DB.Create(&models.Comment{QuestionID: question.ID, UserID: &fan.ID, Content: "Bye!"}).Error)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/questions/%d", question.ID),
		nil, authCookie(t, owner))
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.Question{}).Where("id = ?", question.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, countLikes(t, question.ID))
	assert.Zero(t, countComments(t, question.ID))
}

func TestDeleteQuestionNotOwner(t *testing.T) {
	r := setupRouter(t)
	owner := createUser(t, "grace")
	asker := createUser(t, "ada")
	question := createQuestion(t, &asker, owner, "Can you delete this?")

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/questions/%d", question.ID),
		nil, authCookie(t, asker))
	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.Question{}).Where("id = ?", question.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
