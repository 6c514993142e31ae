package blog

import (
	"errors"
	"time"
)

// Post is a bilingual blog entry managed through the admin panel.
type Post struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	TitleEn   string    `json:"title_en"`
	TitleAr   string    `json:"title_ar"`
	BodyEn    string    `json:"body_en"`
	BodyAr    string    `json:"body_ar"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrNotFound indicates the post does not exist.
var ErrNotFound = errors.New("blog: post not found")
