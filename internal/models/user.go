package models

import "gorm.io/datatypes"

type User struct {
	BaseModel

	FirstName      string `gorm:"not null"`
	LastName       string `gorm:"not null"`
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	Avatar         string
	Bio            string
	AllowAnonymous bool `gorm:"not null;default:true"`
	Followers      int  `gorm:"not null;default:0"`
	Following      int  `gorm:"not null;default:0"`
	Socials        datatypes.JSON

	// Relationships
	Categories []Category `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
