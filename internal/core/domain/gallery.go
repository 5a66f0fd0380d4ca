package domain

import "time"

// Image is a user-posted picture. Content is the opaque data-URL string the
// client composed; the server never decodes it.
type Image struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Comment is a user remark on an image.
type Comment struct {
	ID        string
	UserID    string
	ImageID   string
	Body      string
	CreatedAt time.Time
}

// FeedAuthor is the slim user projection embedded in feed entries.
type FeedAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// FeedComment is a comment joined with its author for feed delivery.
type FeedComment struct {
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	User      FeedAuthor `json:"user"`
}

// FeedImage aggregates an image with its author, comments, and like state for
// the requesting viewer.
type FeedImage struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Liked     bool          `json:"liked"`
	Likes     int           `json:"likes"`
	User      FeedAuthor    `json:"user"`
	Comments  []FeedComment `json:"comments"`
}

// Overlay is a named overlay asset delivered to the client composer.
type Overlay struct {
	Slug    string `json:"slug"`
	Content string `json:"content"`
}
