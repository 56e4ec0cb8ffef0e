package services

import (
	"context"
	"fmt"
	"platebook/db"
	"platebook/models"

	"gorm.io/gorm"
)

const (
	FEED_BATCH_SIZE = 5  // Размер батча сэмплирования по умолчанию
	FEED_MAX_BATCH  = 50 // Верхняя граница размера батча
)

type FeedService struct {
	posts *PostService
}

func NewFeedService() *FeedService {
	return &FeedService{
		posts: NewPostService(),
	}
}

// Sample возвращает случайный батч постов вне множества excludeIDs.
// Выборка равномерная по всем подходящим постам (ORDER BY RANDOM()),
// никакого смещения к свежести или популярности. Стабильного курсора
// здесь нет по построению: что уже показано, помнит только клиент,
// поэтому он и присылает накопленное множество исключений.
func (fs *FeedService) Sample(ctx context.Context, viewerID int64, excludeIDs []int64, limit int) (*models.FeedResponse, error) {
	if limit <= 0 {
		limit = FEED_BATCH_SIZE
	}
	if limit > FEED_MAX_BATCH {
		limit = FEED_MAX_BATCH
	}

	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select(`p.id, p.user_id, p.author_name, p.author_avatar, p.content, p.created_at,
			(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count`).
		Order("RANDOM()").
		Limit(limit)

	if len(excludeIDs) > 0 {
		query = query.Where("p.id NOT IN ?", excludeIDs)
	}

	var posts []models.FeedPost
	if err := query.Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to sample feed: %v", models.ErrStoreUnavailable, err)
	}

	// Истощение - это строго пустая выдача. Неполный батч означает лишь,
	// что подходящих постов осталось меньше limit.
	if len(posts) == 0 {
		return &models.FeedResponse{Posts: []models.FeedPost{}, Exhausted: true}, nil
	}

	if err := fs.attachEngagement(ctx, posts, viewerID); err != nil {
		return nil, err
	}

	for _, fp := range posts {
		go fs.posts.cachePost(context.Background(), fp)
	}

	return &models.FeedResponse{Posts: posts, Exhausted: false}, nil
}

// attachEngagement дозагружает комментарии и флаг лайка зрителя
// для всего батча двумя запросами
func (fs *FeedService) attachEngagement(ctx context.Context, posts []models.FeedPost, viewerID int64) error {
	postIDs := make([]int64, 0, len(posts))
	for i := range posts {
		posts[i].Comments = []models.Comment{}
		postIDs = append(postIDs, posts[i].ID)
	}

	var comments []models.Comment
	err := db.GetReadOnlyDB(ctx).
		Where("post_id IN ?", postIDs).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return fmt.Errorf("%w: failed to get comments: %v", models.ErrStoreUnavailable, err)
	}

	byPost := make(map[int64][]models.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for i := range posts {
		if list, ok := byPost[posts[i].ID]; ok {
			posts[i].Comments = list
		}
	}

	if viewerID > 0 {
		var likedIDs []int64
		err = db.GetReadOnlyDB(ctx).Model(&models.PostLike{}).
			Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
			Pluck("post_id", &likedIDs).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: failed to get viewer likes: %v", models.ErrStoreUnavailable, err)
		}

		liked := make(map[int64]bool, len(likedIDs))
		for _, id := range likedIDs {
			liked[id] = true
		}
		for i := range posts {
			posts[i].Liked = liked[posts[i].ID]
		}
	}

	return nil
}
