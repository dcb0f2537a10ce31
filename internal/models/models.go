package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Link struct {
	ID        int64     `json:"id"`
	Alias     string    `json:"alias"`
	LongURL   string    `json:"long_url"`
	OwnerID   int64     `json:"-"`
	HasQR     bool      `json:"has_qr"`
	CreatedAt time.Time `json:"created_at"`
	Clicks    int64     `json:"clicks"`
}

// Click is append-only; referrer, user agent and IP are nullable because
// not every request carries them.
type Click struct {
	ID        int64     `json:"-"`
	LinkID    int64     `json:"-"`
	Referrer  *string   `json:"referrer"`
	UserAgent *string   `json:"ua"`
	IP        *string   `json:"ip"`
	Ts        time.Time `json:"ts"`
}
