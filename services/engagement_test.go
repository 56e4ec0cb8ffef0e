package services

import (
	"context"
	"errors"
	"platebook/db"
	"platebook/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeFlipsMembership(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	liker := createTestUser(t, "Liker")
	post := createTestPost(t, owner.ID, "Борщ с чесночными пампушками")

	result, err := es.ToggleLike(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikeCount)

	// Повторный вызов возвращает множество в исходное состояние
	result, err = es.ToggleLike(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikeCount)
}

func TestToggleLikeCountsOtherUsers(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	post := createTestPost(t, owner.ID, "Плов в казане")

	for i := 0; i < 3; i++ {
		u := createTestUser(t, "Fan")
		_, err := es.ToggleLike(ctx, post.ID, u.ID)
		require.NoError(t, err)
	}

	late := createTestUser(t, "Late")
	result, err := es.ToggleLike(ctx, post.ID, late.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(4), result.LikeCount)

	result, err = es.ToggleLike(ctx, post.ID, late.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(3), result.LikeCount)
}

func TestToggleLikeNeverDuplicates(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	liker := createTestUser(t, "Liker")
	post := createTestPost(t, owner.ID, "Сырники со сметаной")

	// Любая последовательность переключений: в множестве не больше
	// одной записи на пользователя
	for i := 0; i < 7; i++ {
		_, err := es.ToggleLike(ctx, post.ID, liker.ID)
		require.NoError(t, err)

		var rows int64
		require.NoError(t, db.ORM.Model(&models.PostLike{}).
			Where("post_id = ? AND user_id = ?", post.ID, liker.ID).
			Count(&rows).Error)
		assert.LessOrEqual(t, rows, int64(1))
	}
}

func TestToggleLikeConcurrent(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	liker := createTestUser(t, "Liker")
	post := createTestPost(t, owner.ID, "Окрошка на квасе")

	// Четное число конкурентных переключений одной пары: нулевое итоговое
	// членство и ни одного дубликата
	const toggles = 8
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := es.ToggleLike(ctx, post.ID, liker.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.ORM.Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", post.ID, liker.ID).
		Count(&rows).Error)
	// Каждый вызов - ровно один переход, четное число вызовов
	// возвращает членство в ноль
	assert.Equal(t, int64(0), rows)
}

func TestToggleLikeValidation(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	user := createTestUser(t, "User")

	_, err := es.ToggleLike(ctx, 0, user.ID)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	_, err = es.ToggleLike(ctx, 42, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	_, err = es.ToggleLike(ctx, 99999, user.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAddCommentAppendsInOrder(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	author := createTestUser(t, "Author")
	post := createTestPost(t, owner.ID, "Паста карбонара")

	texts := []string{"Выглядит отлично", "Сколько варить?", "Спасибо за рецепт"}
	var last []models.Comment
	for _, text := range texts {
		comments, err := es.AddComment(ctx, post.ID, author.ID, text)
		require.NoError(t, err)
		last = comments
	}

	require.Len(t, last, len(texts))
	for i, text := range texts {
		assert.Equal(t, text, last[i].Text)
		// Денормализация автора на момент комментария
		assert.Equal(t, author.Name, last[i].AuthorName)
	}

	// Повторное чтение не меняет порядок
	var reread []models.Comment
	require.NoError(t, db.ORM.Where("post_id = ?", post.ID).Order("id ASC").Find(&reread).Error)
	require.Len(t, reread, len(texts))
	for i, text := range texts {
		assert.Equal(t, text, reread[i].Text)
	}
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	author := createTestUser(t, "Author")
	post := createTestPost(t, owner.ID, "Овсяноблин")

	_, err := es.AddComment(ctx, post.ID, author.ID, "   \t\n")
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	// Список комментариев не изменился
	var rows int64
	require.NoError(t, db.ORM.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

func TestAddCommentUnknownPostOrAuthor(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	post := createTestPost(t, owner.ID, "Хачапури по-аджарски")

	_, err := es.AddComment(ctx, 99999, owner.ID, "text")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = es.AddComment(ctx, post.ID, 99999, "text")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
