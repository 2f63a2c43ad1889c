package models

// Category is a user-defined inbox bucket. The default "general" bucket is
// never stored; a question with a nil CategoryID belongs to it.
type Category struct {
	BaseModel

	UserID uint   `gorm:"not null;uniqueIndex:idx_category_owner_name"`
	Name   string `gorm:"not null;uniqueIndex:idx_category_owner_name"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
