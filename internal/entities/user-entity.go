// Файл: internal/entities/user-entity.go
package entities

import "time"

type User struct {
	ID       uint64 `json:"id" db:"id"`
	Fio      string `json:"fio" db:"fio"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"` // admin | user

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
