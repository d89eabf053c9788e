// Package models defines the core data structures shared by the client
// stores: the authenticated identity, feed posts with their comments,
// and chat messages.
package models

import "time"

// Identity represents the currently authenticated user as returned by
// the backend profile and login endpoints.
type Identity struct {
	// ID is the unique identifier for the user.
	ID int `json:"id"`
	// Name is the display name chosen by the user.
	Name string `json:"name"`
	// Email is the address the user registered with.
	Email string `json:"email"`
	// Avatar is the URL of the user's avatar image, if one was uploaded.
	Avatar string `json:"avatar,omitempty"`
}

// Post is a single feed entry together with its comments.
type Post struct {
	// ID is the unique identifier for the post.
	ID int `json:"id"`
	// AuthorID is the user id of the post's author.
	AuthorID int `json:"authorId"`
	// AuthorName is the display name of the author at creation time.
	AuthorName string `json:"authorName"`
	// Content is the post text.
	Content string `json:"content"`
	// Likes is the like counter as last reported by the server.
	Likes int `json:"likes"`
	// Comments holds the post's comments in chronological order.
	Comments []Comment `json:"comments"`
	// CreatedAt is the server-side creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a single comment attached to a post.
type Comment struct {
	// ID is the unique identifier for the comment.
	ID int `json:"id"`
	// PostID is the id of the post this comment belongs to.
	PostID int `json:"postId"`
	// AuthorName is the display name of the comment's author.
	AuthorName string `json:"authorName"`
	// Text is the comment body.
	Text string `json:"text"`
	// CreatedAt is the server-side creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage is the payload exchanged over the real-time chat channel,
// identical in both directions.
type ChatMessage struct {
	// User is the display name of the sender.
	User string `json:"user"`
	// Text is the message body.
	Text string `json:"text"`
}
