package types

import (
	"time"

	"gorm.io/datatypes"
)

// Author kinds for question and comment projections. Anonymous and deleted
// are distinct: an anonymous author may still exist, a deleted one is gone.
const (
	AuthorNamed     = "named"
	AuthorAnonymous = "anonymous"
	AuthorDeleted   = "deleted"
)

type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

type Author struct {
	Type string       `json:"type"`
	User *UserSummary `json:"user,omitempty"`
}

type UserResponse struct {
	ID             uint           `json:"id"`
	Username       string         `json:"username"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Avatar         string         `json:"avatar"`
	Bio            string         `json:"bio"`
	AllowAnonymous bool           `json:"allow_anonymous"`
	Followers      int            `json:"followers"`
	Following      int            `json:"following"`
	Socials        datatypes.JSON `json:"socials,omitempty"`
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type QuestionResponse struct {
	ID         uint       `json:"id"`
	Author     Author     `json:"author"`
	ToUserID   uint       `json:"to_user_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	IsAnswered bool       `json:"is_answered"`
	CategoryID *uint      `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
	AnsweredAt *time.Time `json:"answered_at"`
	Likes      int        `json:"likes"`
	Comments   int        `json:"comments"`
}

type CommentResponse struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	Author     Author    `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
