package models

import "time"

type Joke struct {
	ID           int64     `db:"id" json:"id"`
	Text         string    `db:"text" json:"text"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Quote struct {
	ID           int64     `db:"id" json:"id"`
	Text         string    `db:"text" json:"text"`
	Author       *string   `db:"author" json:"author,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type TickerMessage struct {
	ID           int64     `db:"id" json:"id"`
	Message      string    `db:"message" json:"message"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
