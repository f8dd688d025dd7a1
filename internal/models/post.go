package models

import "time"

type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Images     []string  `json:"images,omitempty"`
	AuthorID   int       `json:"authorId,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`
	LikeCount  int       `json:"likeCount,omitempty"`
	Liked      bool      `json:"liked,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type UpdatePostRequest struct {
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content,omitempty"`
	Images  []string `json:"images,omitempty"`
}

// PostListParams are the optional query parameters for the post list.
type PostListParams struct {
	Page       int
	Size       int
	OrderBy    string
	Keyword    string
	LatestOnly bool
	CourseID   string
}

type Comment struct {
	ID         int       `json:"id"`
	PostID     int       `json:"postId"`
	Content    string    `json:"content"`
	AuthorID   int       `json:"authorId,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content"`
}
