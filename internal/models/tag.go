package models

import "time"

// Tag labels books; names are unique.
type Tag struct {
	ID        string     `db:"uid" json:"uid" gorm:"column:uid;type:uuid;primaryKey"`
	Name      string     `db:"name" json:"name" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time  `db:"created_at" json:"created_at" gorm:"not null"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }

// BookTag links a book to a tag.
type BookTag struct {
	BookID string `db:"book_uid" json:"book_uid" gorm:"column:book_uid;type:uuid;primaryKey"`
	TagID  string `db:"tag_uid" json:"tag_uid" gorm:"column:tag_uid;type:uuid;primaryKey;index"`
}

func (BookTag) TableName() string { return "book_tags" }
