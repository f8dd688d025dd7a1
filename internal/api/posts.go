package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"board-client/internal/models"
)

func (c *Client) Posts(ctx context.Context, params *models.PostListParams) ([]models.Post, error) {
	path := "/posts"
	if params != nil {
		if query := encodePostListParams(params); query != "" {
			path += "?" + query
		}
	}
	var posts []models.Post
	if err := c.doUnwrapped(ctx, http.MethodGet, path, nil, &posts, false); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Post(ctx context.Context, postID int) (*models.Post, error) {
	var post models.Post
	path := fmt.Sprintf("/posts/%d", postID)
	if err := c.doUnwrapped(ctx, http.MethodGet, path, nil, &post, false); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.doUnwrapped(ctx, http.MethodPost, "/posts", req, &post, true); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID int, req *models.UpdatePostRequest) (*models.Post, error) {
	var post models.Post
	path := fmt.Sprintf("/posts/%d", postID)
	if err := c.doUnwrapped(ctx, http.MethodPut, path, req, &post, true); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID int) error {
	path := fmt.Sprintf("/posts/%d", postID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// ToggleLike flips the authenticated user's like on the post.
func (c *Client) ToggleLike(ctx context.Context, postID int) error {
	path := fmt.Sprintf("/posts/%d/like", postID)
	return c.do(ctx, http.MethodPost, path, nil, nil, true)
}

func (c *Client) SearchPosts(ctx context.Context, keyword, filter string) ([]models.Post, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	if filter != "" {
		query.Set("filter", filter)
	}
	var posts []models.Post
	path := "/posts/search?" + query.Encode()
	if err := c.doUnwrapped(ctx, http.MethodGet, path, nil, &posts, false); err != nil {
		return nil, err
	}
	return posts, nil
}

func encodePostListParams(params *models.PostListParams) string {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}
	if params.OrderBy != "" {
		query.Set("orderBy", params.OrderBy)
	}
	if params.Keyword != "" {
		query.Set("keyword", params.Keyword)
	}
	if params.LatestOnly {
		query.Set("latestOnly", "true")
	}
	if params.CourseID != "" {
		query.Set("courseId", params.CourseID)
	}
	return query.Encode()
}
