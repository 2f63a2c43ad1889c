package models

import "time"

// Question is the anchor entity: asked into an inbox while Answer is empty,
// public once answered. FromUserID goes nil when the asking account is
// deleted, which is distinct from IsAnonymous (a display-only flag).
type Question struct {
	BaseModel

	FromUserID  *uint  `gorm:"index"`
	ToUserID    uint   `gorm:"not null;index"`
	Question    string `gorm:"not null"`
	Answer      string `gorm:"not null;default:''"`
	IsAnonymous bool   `gorm:"not null;default:false"`
	CategoryID  *uint  `gorm:"index"`
	AnsweredAt  *time.Time
	Likes       int `gorm:"not null;default:0"`
	Comments    int `gorm:"not null;default:0"`

	// Relationships
	FromUser *User     `gorm:"foreignKey:FromUserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ToUser   User      `gorm:"foreignKey:ToUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// IsAnswered is computed from the answer text and never stored.
func (q *Question) IsAnswered() bool {
	return q.Answer != ""
}
