package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"platebook/models"
	"strconv"
	"time"
)

// APIClient - HTTP клиент publiс API. Идентификатор пользователя
// передается заголовком X-User-ID (его проверяет внешний сервис
// идентификации, клиент только транслирует).
type APIClient struct {
	BaseURL    string
	UserID     int64
	HTTPClient *http.Client
}

func NewAPIClient(baseURL string, userID int64) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		UserID:  userID,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserID > 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(c.UserID, 10))
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SampleFeed реализует Sampler поверх POST /api/v1/feed/sample
func (c *APIClient) SampleFeed(ctx context.Context, excludeIDs []int64, limit int) (*models.FeedResponse, error) {
	req := struct {
		ExcludeIDs []int64 `json:"exclude_ids"`
		Limit      int     `json:"limit"`
	}{ExcludeIDs: excludeIDs, Limit: limit}
	if req.ExcludeIDs == nil {
		req.ExcludeIDs = []int64{}
	}

	var resp models.FeedResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/feed/sample", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register создает пользователя и возвращает его профиль
func (c *APIClient) Register(ctx context.Context, nickname, name, avatar, password string) (*models.User, error) {
	req := map[string]string{
		"nickname": nickname,
		"name":     name,
		"avatar":   avatar,
		"password": password,
	}
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreatePost публикует пост от имени текущего пользователя
func (c *APIClient) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	req := map[string]string{"content": content}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts/create", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// MyPosts возвращает посты текущего пользователя, новые сверху
func (c *APIClient) MyPosts(ctx context.Context) ([]models.Post, error) {
	var resp struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/my", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// ToggleLike переключает лайк текущего пользователя на посте
func (c *APIClient) ToggleLike(ctx context.Context, postID int64) (*models.LikeResult, error) {
	var result models.LikeResult
	path := fmt.Sprintf("/api/v1/posts/%d/like", postID)
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment добавляет комментарий и возвращает полный список комментариев
func (c *APIClient) AddComment(ctx context.Context, postID int64, text string) ([]models.Comment, error) {
	req := map[string]string{"text": text}
	var resp struct {
		Comments []models.Comment `json:"comments"`
	}
	path := fmt.Sprintf("/api/v1/posts/%d/comments", postID)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}
