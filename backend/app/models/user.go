package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleReader:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"`
	Role         Role   `gorm:"size:32;not null;default:reader" json:"role"`
}
