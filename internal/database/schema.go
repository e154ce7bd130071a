package database

import (
	"database/sql"
	"time"
)

type User struct {
	Id       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"uniqueIndex;not null"`
	Hash     string `gorm:"not null"`
}

type History struct {
	Id     int64 `gorm:"primaryKey;autoIncrement"`
	UserId int64 `gorm:"not null;index"`
	User   *User `gorm:"foreignKey:UserId"`

	Pattern string
	Input   string `gorm:"not null"`
	Result  string `gorm:"not null"`

	Time time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// Session is one browser session. The id is the opaque token carried by the
// session cookie; the last_* columns hold the most recent successful
// generation so it can be re-rendered and regenerated.
type Session struct {
	Id     string        `gorm:"primaryKey;size:64"`
	UserId sql.NullInt64 `gorm:"index"`

	LastPattern     string
	LastRequirement string
	LastMessage     string
	LastResponse    string

	CreatedAt time.Time
}
