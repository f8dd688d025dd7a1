package api

import (
	"context"
	"fmt"
	"net/http"

	"board-client/internal/models"
)

func (c *Client) Comments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	path := fmt.Sprintf("/posts/%d/comments", postID)
	if err := c.doUnwrapped(ctx, http.MethodGet, path, nil, &comments, false); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, postID int, content string) (*models.Comment, error) {
	var comment models.Comment
	path := fmt.Sprintf("/posts/%d/comments", postID)
	req := models.CommentRequest{Content: content}
	if err := c.doUnwrapped(ctx, http.MethodPost, path, &req, &comment, true); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID int, content string) (*models.Comment, error) {
	var comment models.Comment
	path := fmt.Sprintf("/comments/%d", commentID)
	req := models.CommentRequest{Content: content}
	if err := c.doUnwrapped(ctx, http.MethodPut, path, &req, &comment, true); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int) error {
	path := fmt.Sprintf("/comments/%d", commentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}
