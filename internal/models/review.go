package models

import "time"

// Review is a user's rating of a book.
type Review struct {
	ID         string     `db:"uid" json:"uid" gorm:"column:uid;type:uuid;primaryKey"`
	ReviewText string     `db:"review_text" json:"review_text" gorm:"type:text;not null"`
	Rating     float64    `db:"rating" json:"rating" gorm:"not null"`
	BookID     string     `db:"book_uid" json:"book_uid" gorm:"column:book_uid;type:uuid;not null;index"`
	UserID     string     `db:"user_uid" json:"user_uid" gorm:"column:user_uid;type:uuid;not null;index"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at" gorm:"not null"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
