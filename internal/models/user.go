package models

import (
	"time"

	"userdir/internal/common"
)

// UserStatus is the presence state of a user.
type UserStatus string

const (
	StatusOnline  UserStatus = "ONLINE"
	StatusOffline UserStatus = "OFFLINE"
)

// ParseUserStatus accepts the exact enumerated names only.
func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case StatusOnline, StatusOffline:
		return UserStatus(s), nil
	}
	return "", common.InvalidArgument("status %q is not one of %s, %s", s, StatusOnline, StatusOffline)
}

// User represents a registered account.
// Token and CreationDate are set at registration and never written again.
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"uniqueIndex;type:varchar(100);not null"`
	Password     string     `gorm:"type:varchar(255);not null"`
	Token        string     `gorm:"uniqueIndex;type:varchar(36);not null"`
	Status       UserStatus `gorm:"type:varchar(16);not null"`
	CreationDate time.Time  `gorm:"not null"`
	Birthday     *time.Time `gorm:"type:date"`
}

// BirthdayLayout is the dd.MM.yyyy format birthdays are exchanged in.
const BirthdayLayout = "02.01.2006"

// ParseBirthday parses a dd.MM.yyyy date.
func ParseBirthday(s string) (time.Time, error) {
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return time.Time{}, common.InvalidArgument("birthday %q must be in dd.MM.yyyy format", s)
	}
	return t, nil
}

// FormatBirthday returns nil for an unset birthday.
func FormatBirthday(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(BirthdayLayout)
	return &s
}
