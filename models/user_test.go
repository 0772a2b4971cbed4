package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.Local)
}

func TestInQuietHoursSimpleWindow(t *testing.T) {
	user := User{QuietHoursStart: "12:00", QuietHoursEnd: "14:00"}

	assert.False(t, user.InQuietHours(at(11, 59)))
	assert.True(t, user.InQuietHours(at(12, 0)))
	assert.True(t, user.InQuietHours(at(13, 30)))
	assert.False(t, user.InQuietHours(at(14, 0))) // fim exclusivo
	assert.False(t, user.InQuietHours(at(20, 0)))
}

func TestInQuietHoursCrossingMidnight(t *testing.T) {
	user := User{QuietHoursStart: "22:00", QuietHoursEnd: "07:00"}

	assert.True(t, user.InQuietHours(at(23, 0)))
	assert.True(t, user.InQuietHours(at(2, 0)))
	assert.True(t, user.InQuietHours(at(6, 59)))
	assert.False(t, user.InQuietHours(at(7, 0)))
	assert.False(t, user.InQuietHours(at(12, 0)))
	assert.False(t, user.InQuietHours(at(21, 59)))
}

func TestInQuietHoursDisabledOrInvalid(t *testing.T) {
	assert.False(t, User{}.InQuietHours(at(3, 0)))
	assert.False(t, User{QuietHoursStart: "22:00"}.InQuietHours(at(23, 0)))
	assert.False(t, User{QuietHoursStart: "abc", QuietHoursEnd: "07:00"}.InQuietHours(at(3, 0)))
	// janela vazia (start == end) não silencia nada
	assert.False(t, User{QuietHoursStart: "08:00", QuietHoursEnd: "08:00"}.InQuietHours(at(8, 0)))
}

func TestIsAdminAndRoles(t *testing.T) {
	assert.True(t, User{Role: USER_ROLE_ADMIN}.IsAdmin())
	assert.False(t, User{Role: USER_ROLE_MANAGER}.IsAdmin())
	assert.False(t, User{Role: USER_ROLE_OPERATOR}.IsAdmin())

	assert.True(t, IsValidRole(USER_ROLE_OPERATOR))
	assert.True(t, IsValidRole(USER_ROLE_ADMIN))
	assert.False(t, IsValidRole(42))
}

func TestUserMissingFields(t *testing.T) {
	assert.Equal(t, "name", User{}.MissingFields())
	assert.Equal(t, "email", User{Name: "Ana"}.MissingFields())
	assert.Equal(t, "password", User{Name: "Ana", Email: "a@b.c"}.MissingFields())
	assert.Equal(t, "password", User{Name: "Ana", Email: "a@b.c", Password: "123"}.MissingFields())
	assert.Empty(t, User{Name: "Ana", Email: "a@b.c", Password: "123456"}.MissingFields())
}
