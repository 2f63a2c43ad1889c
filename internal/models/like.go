package models

// Like is unique per (question, user). UserID is nullable so that deleting
// the liking account keeps the like without an author.
type Like struct {
	BaseModel

	QuestionID uint  `gorm:"not null;uniqueIndex:idx_like_question_user"`
	UserID     *uint `gorm:"uniqueIndex:idx_like_question_user"`

	// Relationships
	Question Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
