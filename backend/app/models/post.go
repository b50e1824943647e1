package models

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Post belongs to one author and optionally to one category and one tag.
// Removing a category or tag clears the reference; removing an author that
// still owns posts is refused by the store.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Slug       string    `gorm:"size:255;index" json:"slug"`
	Content    string    `gorm:"type:text" json:"content"`
	Status     Status    `gorm:"size:16;not null;default:draft" json:"status"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	TagID      *uint     `gorm:"index" json:"tag_id"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Tag      *Tag      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
}

// PostView is the flattened read shape of a post joined with its author,
// category and tag. Related fields are nil when the join finds no row.
type PostView struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	AuthorID     *uint     `json:"author_id"`
	AuthorName   *string   `json:"author_name"`
	CategoryID   *uint     `json:"category_id"`
	CategoryName *string   `json:"category_name"`
	TagID        *uint     `json:"tag_id"`
	TagName      *string   `json:"tag_name"`
}
