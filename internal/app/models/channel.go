package models

import "time"

// Channel represents a batch or group channel
type Channel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	Type  string `json:"type"`
}

// Post is a message published in a channel feed
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	AllowComments bool      `json:"allowComments"`
	HasImage      bool      `json:"hasImage"`
	ImageURI      *string   `json:"imageUri"`
	PublishedAt   time.Time `json:"publishedAt"`
}

// PostDraft is the unsaved composer state kept under post_data
type PostDraft struct {
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	AllowComments bool    `json:"allowComments"`
	ImageURI      *string `json:"imageUri"`
}

// LikeRecord holds the like count of a post and whether the viewer liked it
type LikeRecord struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}

// Comment on a post
type Comment struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Author       string    `json:"author"`
	Timestamp    time.Time `json:"timestamp"`
	AuthorAvatar string    `json:"authorAvatar"`
}

// Defaults for comments written by the local viewer
const (
	DefaultCommentAuthor = "You"
	DefaultCommentAvatar = "👤"
)
