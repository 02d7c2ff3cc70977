package models

import "time"

// Book is a catalogue entry optionally owned by the user who created it.
type Book struct {
	ID            string     `db:"uid" json:"uid" gorm:"column:uid;type:uuid;primaryKey"`
	Title         string     `db:"title" json:"title" gorm:"not null"`
	Author        string     `db:"author" json:"author" gorm:"not null"`
	Publisher     string     `db:"publisher" json:"publisher" gorm:"not null"`
	PageCount     int        `db:"page_count" json:"page_count" gorm:"not null"`
	Language      string     `db:"language" json:"language" gorm:"size:32;not null"`
	PublishedDate Date       `db:"published_date" json:"published_date" gorm:"type:date;not null"`
	UserID        *string    `db:"user_uid" json:"user_uid" gorm:"column:user_uid;type:uuid;index"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at" gorm:"not null"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at"`
	Tags          []Tag      `db:"-" json:"tags,omitempty" gorm:"-"`
}

func (Book) TableName() string { return "books" }

// OwnedBy reports whether userID owns the book.
func (b *Book) OwnedBy(userID string) bool {
	return b.UserID != nil && *b.UserID == userID
}

// BookFilter narrows book listings.
type BookFilter struct {
	OwnerID  string
	TagName  string
	Search   string
	Page     int
	PageSize int
}
