package models

import "time"

// 회원 사용자 모델
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// 로그인 세션, JWT의 jti와 1:1
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	RevokedAt *time.Time
}

type MagicLink struct {
	Token     string
	RequestID string
	Email     string
	// S256 challenge of the requesting device's verifier
	CodeChallenge string
	ExpiresAt     time.Time
	UsedAt        *time.Time
	CreatedAt     time.Time
}
