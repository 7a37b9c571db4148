package model

import (
	"time"

	"gorm.io/gorm"
)

// UserModel mirrors a clerk user. Clerk owns credentials and profile; this
// row exists so orders, questions and reactions can join to a name/email.
type UserModel struct {
	ID        string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Email     string         `gorm:"column:email;type:varchar(255);index" json:"email"`
	FirstName string         `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName  string         `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	ImageURL  string         `gorm:"column:image_url;type:text" json:"image_url"`
	IsAdmin   bool           `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u UserModel) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
