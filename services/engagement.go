package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"platebook/db"
	"platebook/models"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Количество повторов toggle при гонке INSERT/DELETE на одной паре
const LIKE_TOGGLE_ATTEMPTS = 3

type EngagementService struct {
	posts *PostService
}

func NewEngagementService() *EngagementService {
	return &EngagementService{
		posts: NewPostService(),
	}
}

// ToggleLike атомарно переключает членство пользователя в множестве лайков.
// Никакого чтения-модификации-записи списка: переключение выражено парой
// атомарных примитивов БД (INSERT ON CONFLICT / DELETE по паре ключей),
// поэтому два конкурентных вызова не могут породить дубликат.
func (es *EngagementService) ToggleLike(ctx context.Context, postID, userID int64) (*models.LikeResult, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("%w: post id is required", models.ErrInvalidArgument)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", models.ErrInvalidArgument)
	}

	if err := es.checkPostExists(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := es.flipLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	// Счетчик читаем с мастера, чтобы не поймать лаг реплики сразу после записи
	var likeCount int64
	err = db.GetWriteDB(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&likeCount).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count likes: %v", models.ErrStoreUnavailable, err)
	}

	kind := EngagementUnlike
	if liked {
		kind = EngagementLike
	}
	go es.notify(postID, userID, kind)

	return &models.LikeResult{Liked: liked, LikeCount: likeCount}, nil
}

// flipLike выполняет ровно один переход: добавление или снятие лайка.
// Если INSERT уперся в уникальный индекс, а DELETE уже никого не нашел,
// значит пару успел снять конкурент - повторяем с начала.
func (es *EngagementService) flipLike(ctx context.Context, postID, userID int64) (bool, error) {
	for attempt := 0; attempt < LIKE_TOGGLE_ATTEMPTS; attempt++ {
		like := models.PostLike{
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		res := db.GetWriteDB(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&like)
		if res.Error != nil {
			return false, fmt.Errorf("%w: failed to add like: %v", models.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected > 0 {
			return true, nil
		}

		del := db.GetWriteDB(ctx).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostLike{})
		if del.Error != nil {
			return false, fmt.Errorf("%w: failed to remove like: %v", models.ErrStoreUnavailable, del.Error)
		}
		if del.RowsAffected > 0 {
			return false, nil
		}
	}

	return false, fmt.Errorf("%w: like toggle contention on post %d", models.ErrStoreUnavailable, postID)
}

// AddComment добавляет комментарий и возвращает полный упорядоченный список.
// Комментарии только дописываются: ни правок, ни удалений не существует.
func (es *EngagementService) AddComment(ctx context.Context, postID, authorID int64, text string) ([]models.Comment, error) {
	text = strings.TrimSpace(text)
	if postID <= 0 {
		return nil, fmt.Errorf("%w: post id is required", models.ErrInvalidArgument)
	}
	if authorID <= 0 {
		return nil, fmt.Errorf("%w: author id is required", models.ErrInvalidArgument)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is empty", models.ErrInvalidArgument)
	}

	if err := es.checkPostExists(ctx, postID); err != nil {
		return nil, err
	}

	var author models.User
	err := db.GetReadOnlyDB(ctx).First(&author, authorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: author %d", models.ErrNotFound, authorID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load author: %v", models.ErrStoreUnavailable, err)
	}

	comment := models.Comment{
		PostID:       postID,
		AuthorID:     authorID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Text:         text,
		CreatedAt:    time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to add comment: %v", models.ErrStoreUnavailable, err)
	}

	// Список читаем с мастера: свой комментарий должен быть виден сразу
	var comments []models.Comment
	err = db.GetWriteDB(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get comments: %v", models.ErrStoreUnavailable, err)
	}

	go es.notify(postID, authorID, EngagementComment)

	return comments, nil
}

func (es *EngagementService) checkPostExists(ctx context.Context, postID int64) error {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("%w: failed to check post: %v", models.ErrStoreUnavailable, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: post %d", models.ErrNotFound, postID)
	}
	return nil
}

// notify сбрасывает кеш документа и публикует событие вовлеченности.
// Публикация строго best-effort: пользовательская операция уже завершилась.
func (es *EngagementService) notify(postID, actorID int64, kind string) {
	ctx := context.Background()

	es.posts.InvalidatePostCache(ctx, postID)

	event := EngagementEvent{
		PostID:    postID,
		ActorID:   actorID,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	if err := PublishEngagementEvent(ctx, event); err != nil {
		// Fallback: если RabbitMQ недоступен, двигаем счетчики напрямую
		log.Printf("DEBUG: RabbitMQ error, applying counters directly for postID=%d: %v", postID, err)
		if applyErr := GetCounterService().Apply(ctx, event); applyErr != nil {
			log.Printf("ERROR: Failed to apply counters for postID=%d: %v", postID, applyErr)
		}
	}
}
