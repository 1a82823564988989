package models

type User struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Fullname     string `json:"fullname" db:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Fullname string `json:"fullname"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}
