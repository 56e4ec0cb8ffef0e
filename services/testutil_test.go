package services

import (
	"context"
	"fmt"
	"platebook/config"
	"platebook/db"
	"platebook/models"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

var testUserSeq int64

// setupServiceTest поднимает in-memory sqlite и чистит таблицы.
// Одно соединение обязательно: у каждого коннекта к :memory: своя база.
func setupServiceTest(t *testing.T) {
	t.Helper()

	if db.ORM == nil {
		conf := &config.ConfigSchema{}
		conf.Databases.Master = config.DBConfig{
			Driver: "sqlite",
			DBName: "file::memory:?cache=shared",
		}
		config.AppConfig = conf

		require.NoError(t, db.ConnectDB())

		sqlDB, err := db.ORM.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)
	}

	for _, table := range []string{"post_likes", "comments", "posts", "users"} {
		require.NoError(t, db.ORM.Exec("DELETE FROM "+table).Error)
	}
}

func createTestUser(t *testing.T, name string) *models.User {
	t.Helper()

	user := &models.User{
		Nickname:  fmt.Sprintf("user_%d", atomic.AddInt64(&testUserSeq, 1)),
		Name:      name,
		Avatar:    gofakeit.ImageURL(64, 64),
		Password:  "testpassword",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, ownerID int64, content string) *models.Post {
	t.Helper()

	post, err := NewPostService().CreatePost(context.Background(), ownerID, content)
	require.NoError(t, err)
	return post
}
