package services

import (
	"context"
	"fmt"
	"testing"

	"platebook/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFeedPosts(t *testing.T, count int) []*models.Post {
	t.Helper()

	owner := createTestUser(t, gofakeit.Name())
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, createTestPost(t, owner.ID, fmt.Sprintf("Рецепт №%d: %s", i+1, gofakeit.Dinner())))
	}
	return posts
}

func postIDs(posts []models.FeedPost) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

// Сценарий из семи постов: 5 + 2 + пустая выдача
func TestSampleDrainsPopulation(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()

	seedFeedPosts(t, 7)

	first, err := fs.Sample(ctx, 0, nil, 5)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 5)
	assert.False(t, first.Exhausted)

	exclude := postIDs(first.Posts)
	second, err := fs.Sample(ctx, 0, exclude, 5)
	require.NoError(t, err)
	// Неполный, но непустой батч - еще не истощение
	assert.Len(t, second.Posts, 2)
	assert.False(t, second.Exhausted)

	exclude = append(exclude, postIDs(second.Posts)...)
	third, err := fs.Sample(ctx, 0, exclude, 5)
	require.NoError(t, err)
	assert.Empty(t, third.Posts)
	assert.True(t, third.Exhausted)
}

func TestSampleNeverReturnsExcluded(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()

	posts := seedFeedPosts(t, 10)
	exclude := []int64{posts[0].ID, posts[3].ID, posts[7].ID}
	excluded := map[int64]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}

	for i := 0; i < 10; i++ {
		resp, err := fs.Sample(ctx, 0, exclude, 5)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Posts)
		for _, p := range resp.Posts {
			assert.False(t, excluded[p.ID], "excluded post %d returned", p.ID)
		}
	}
}

func TestSampleReturnsUniquePostsPerBatch(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()

	seedFeedPosts(t, 10)

	resp, err := fs.Sample(ctx, 0, nil, 10)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 10)

	seen := map[int64]bool{}
	for _, p := range resp.Posts {
		assert.False(t, seen[p.ID], "duplicate post %d in one batch", p.ID)
		seen[p.ID] = true
	}
}

// Выборка случайная: одиночные батчи из семи постов не могут
// раз за разом возвращать один и тот же пост
func TestSampleIsRandomized(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()

	seedFeedPosts(t, 7)

	distinct := map[int64]bool{}
	for i := 0; i < 100; i++ {
		resp, err := fs.Sample(ctx, 0, nil, 1)
		require.NoError(t, err)
		require.Len(t, resp.Posts, 1)
		distinct[resp.Posts[0].ID] = true
	}
	assert.Greater(t, len(distinct), 1)
}

func TestSampleDefaultAndCappedBatch(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()

	seedFeedPosts(t, 8)

	resp, err := fs.Sample(ctx, 0, nil, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Posts, FEED_BATCH_SIZE)

	resp, err = fs.Sample(ctx, 0, nil, 1000)
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 8)
}

func TestSampleAttachesEngagement(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()
	es := NewEngagementService()

	owner := createTestUser(t, "Owner")
	viewer := createTestUser(t, "Viewer")
	post := createTestPost(t, owner.ID, "Том-ям с креветками")

	_, err := es.ToggleLike(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	_, err = es.AddComment(ctx, post.ID, owner.ID, "Отвечаю на вопросы в комментариях")
	require.NoError(t, err)

	resp, err := fs.Sample(ctx, viewer.ID, nil, 5)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)

	fp := resp.Posts[0]
	assert.Equal(t, int64(1), fp.LikeCount)
	assert.True(t, fp.Liked)
	require.Len(t, fp.Comments, 1)
	assert.Equal(t, owner.Name, fp.Comments[0].AuthorName)

	// Для анонимного зрителя liked не выставляется
	resp, err = fs.Sample(ctx, 0, nil, 5)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.False(t, resp.Posts[0].Liked)
	assert.Equal(t, int64(1), resp.Posts[0].LikeCount)
}

func TestSampleEmptyPopulation(t *testing.T) {
	setupServiceTest(t)
	ctx := context.Background()
	fs := NewFeedService()

	resp, err := fs.Sample(ctx, 0, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.True(t, resp.Exhausted)
}
