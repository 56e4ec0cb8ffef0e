package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"platebook/db"
	"platebook/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	POST_CACHE_TTL  = 24 * time.Hour // TTL для кеша документов постов
	POST_KEY_PREFIX = "post:"        // Префикс ключей постов в Redis
)

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

// CreatePost создает новый пост. Имя и аватар владельца копируются в пост
// на момент создания - дальнейшие правки профиля пост не трогают.
func (ps *PostService) CreatePost(ctx context.Context, ownerID int64, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: owner id is required", models.ErrInvalidArgument)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", models.ErrInvalidArgument)
	}

	var owner models.User
	err := db.GetReadOnlyDB(ctx).First(&owner, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: owner %d", models.ErrNotFound, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load owner: %v", models.ErrStoreUnavailable, err)
	}

	post := &models.Post{
		UserID:       ownerID,
		AuthorName:   owner.Name,
		AuthorAvatar: owner.Avatar,
		Content:      content,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Comments:     []models.Comment{},
	}

	// Сначала сам пост; индекс по user_id делает его видимым в списке владельца
	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create post: %v", models.ErrStoreUnavailable, err)
	}

	go ps.cachePost(context.Background(), feedPostFromPost(post))

	return post, nil
}

// GetUserPosts возвращает посты владельца, новые сверху.
// Вторичная сортировка по id дает стабильный порядок при равных таймстемпах.
func (ps *PostService) GetUserPosts(ctx context.Context, ownerID int64) ([]models.Post, error) {
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: owner id is required", models.ErrInvalidArgument)
	}

	var posts []models.Post
	err := db.GetReadOnlyDB(ctx).
		Where("user_id = ?", ownerID).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get posts: %v", models.ErrStoreUnavailable, err)
	}

	return posts, nil
}

// GetPost возвращает снапшот одного поста. Сначала пробуем кеш документа,
// флаг liked зрителя всегда считается из БД - он не кешируется.
func (ps *PostService) GetPost(ctx context.Context, postID, viewerID int64) (*models.FeedPost, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("%w: post id is required", models.ErrInvalidArgument)
	}

	fp, err := ps.getPostFromCache(ctx, postID)
	if err != nil {
		fp, err = ps.buildPostFromDB(ctx, postID)
		if err != nil {
			return nil, err
		}
		go ps.cachePost(context.Background(), *fp)
	}

	if viewerID > 0 {
		var liked int64
		err := db.GetReadOnlyDB(ctx).Model(&models.PostLike{}).
			Where("post_id = ? AND user_id = ?", postID, viewerID).
			Count(&liked).Error
		if err == nil {
			fp.Liked = liked > 0
		}
	}

	return fp, nil
}

// buildPostFromDB строит документ поста из базы
func (ps *PostService) buildPostFromDB(ctx context.Context, postID int64) (*models.FeedPost, error) {
	var fp models.FeedPost
	err := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select(`p.id, p.user_id, p.author_name, p.author_avatar, p.content, p.created_at,
			(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count`).
		Where("p.id = ?", postID).
		Scan(&fp).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get post: %v", models.ErrStoreUnavailable, err)
	}
	if fp.ID == 0 {
		return nil, fmt.Errorf("%w: post %d", models.ErrNotFound, postID)
	}

	var comments []models.Comment
	err = db.GetReadOnlyDB(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get comments: %v", models.ErrStoreUnavailable, err)
	}
	fp.Comments = comments

	return &fp, nil
}

// getPostFromCache читает документ поста из Redis кеша
func (ps *PostService) getPostFromCache(ctx context.Context, postID int64) (*models.FeedPost, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("redis not available")
	}

	postKey := fmt.Sprintf("%s%d", POST_KEY_PREFIX, postID)
	val, err := RedisClient.Get(ctx, postKey).Result()
	if err != nil {
		return nil, err
	}

	var fp models.FeedPost
	if err := json.Unmarshal([]byte(val), &fp); err != nil {
		return nil, err
	}
	return &fp, nil
}

// cachePost кеширует документ поста. Liked обнуляется:
// это поле конкретного зрителя, в общий кеш оно не попадает.
func (ps *PostService) cachePost(ctx context.Context, fp models.FeedPost) {
	if RedisClient == nil {
		return
	}

	fp.Liked = false
	postData, err := json.Marshal(fp)
	if err != nil {
		log.Println("failed to marshal post for caching:", err)
		return
	}

	postKey := fmt.Sprintf("%s%d", POST_KEY_PREFIX, fp.ID)
	RedisClient.Set(ctx, postKey, postData, POST_CACHE_TTL)
}

// InvalidatePostCache сбрасывает кеш документа после мутации вовлеченности
func (ps *PostService) InvalidatePostCache(ctx context.Context, postID int64) {
	if RedisClient == nil {
		return
	}
	postKey := fmt.Sprintf("%s%d", POST_KEY_PREFIX, postID)
	RedisClient.Del(ctx, postKey)
}

func feedPostFromPost(post *models.Post) models.FeedPost {
	return models.FeedPost{
		ID:           post.ID,
		UserID:       post.UserID,
		AuthorName:   post.AuthorName,
		AuthorAvatar: post.AuthorAvatar,
		Content:      post.Content,
		CreatedAt:    post.CreatedAt,
		LikeCount:    0,
		Comments:     []models.Comment{},
	}
}
