package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"uid" json:"uid" gorm:"column:uid;type:uuid;primaryKey"`
	Username     string     `db:"username" json:"username" gorm:"size:50;not null"`
	FirstName    string     `db:"firstname" json:"firstname" gorm:"column:firstname;size:100;not null"`
	LastName     string     `db:"lastname" json:"lastname" gorm:"column:lastname;size:100;not null"`
	Email        string     `db:"email" json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string     `db:"hashed_password" json:"-" gorm:"column:hashed_password;not null"`
	IsActive     bool       `db:"is_active" json:"is_active" gorm:"not null;default:true"`
	IsVerified   bool       `db:"is_verified" json:"is_verified" gorm:"not null;default:false"`
	Role         UserRole   `db:"role" json:"role" gorm:"type:varchar(16);not null;default:'user'"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at" gorm:"not null"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Snapshot returns the identity subset embedded in issued tokens.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{ID: u.ID, Email: u.Email, Username: u.Username}
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NormalizePage clamps page and size to the accepted window.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
