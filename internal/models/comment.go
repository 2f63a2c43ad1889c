package models

type Comment struct {
	BaseModel

	QuestionID uint   `gorm:"not null;index"`
	UserID     *uint  `gorm:"index"`
	Content    string `gorm:"not null"`

	// Relationships
	Question Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
