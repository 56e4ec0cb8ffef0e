package services

import (
	"context"
	"fmt"
	"platebook/db"
	"platebook/models"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ENGAGEMENT_KEY_PREFIX = "engagement:"   // engagement:<post_id> - hash {likes, comments}
	ENGAGEMENT_TTL        = 7 * 24 * time.Hour
)

// PostCounters - агрегаты вовлеченности одного поста
type PostCounters struct {
	PostID   int64 `json:"post_id"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// CounterService ведет счетчики вовлеченности постов в Redis.
// Счетчики best-effort: источник истины - таблицы post_likes/comments,
// при расхождении кеш перестраивается из БД.
type CounterService struct {
	redisClient *redis.Client
}

var (
	counterServiceInstance *CounterService
	counterServiceOnce     sync.Once
)

// GetCounterService возвращает singleton инстанс CounterService
func GetCounterService() *CounterService {
	counterServiceOnce.Do(func() {
		counterServiceInstance = &CounterService{redisClient: RedisClient}
	})
	return counterServiceInstance
}

func (cs *CounterService) key(postID int64) string {
	return fmt.Sprintf("%s%d", ENGAGEMENT_KEY_PREFIX, postID)
}

// Apply применяет событие вовлеченности к счетчикам поста
func (cs *CounterService) Apply(ctx context.Context, event EngagementEvent) error {
	if cs.redisClient == nil {
		return fmt.Errorf("redis not available")
	}

	var field string
	var delta int64
	switch event.Kind {
	case EngagementLike:
		field, delta = "likes", 1
	case EngagementUnlike:
		field, delta = "likes", -1
	case EngagementComment:
		field, delta = "comments", 1
	default:
		return fmt.Errorf("unknown engagement kind: %s", event.Kind)
	}

	key := cs.key(event.PostID)
	pipe := cs.redisClient.Pipeline()
	pipe.HIncrBy(ctx, key, field, delta)
	pipe.Expire(ctx, key, ENGAGEMENT_TTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetCounters возвращает счетчики поста из Redis
func (cs *CounterService) GetCounters(ctx context.Context, postID int64) (*PostCounters, error) {
	if cs.redisClient == nil {
		return nil, fmt.Errorf("redis not available")
	}

	values, err := cs.redisClient.HGetAll(ctx, cs.key(postID)).Result()
	if err != nil {
		return nil, err
	}

	counters := &PostCounters{PostID: postID}
	fmt.Sscan(values["likes"], &counters.Likes)
	fmt.Sscan(values["comments"], &counters.Comments)
	return counters, nil
}

// RebuildCounters перестраивает счетчики всех постов из БД
func (cs *CounterService) RebuildCounters(ctx context.Context) error {
	if cs.redisClient == nil {
		return fmt.Errorf("redis not available")
	}

	var postIDs []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Pluck("id", &postIDs).Error
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	for _, postID := range postIDs {
		var likes, comments int64
		if err := db.GetReadOnlyDB(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&likes).Error; err != nil {
			continue
		}
		if err := db.GetReadOnlyDB(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments).Error; err != nil {
			continue
		}

		key := cs.key(postID)
		pipe := cs.redisClient.Pipeline()
		pipe.HSet(ctx, key, "likes", likes, "comments", comments)
		pipe.Expire(ctx, key, ENGAGEMENT_TTL)
		if _, err := pipe.Exec(ctx); err != nil {
			// Логируем и продолжаем со следующим постом
			continue
		}
	}

	return nil
}
