package models

import "time"

// Post - модель поста-рецепта. Имя и аватар автора копируются из профиля
// в момент создания и дальше не обновляются.
type Post struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"index" json:"user_id"`
	AuthorName   string    `gorm:"size:255" json:"author_name"`
	AuthorAvatar string    `gorm:"size:512" json:"author_avatar,omitempty"`
	Content      string    `gorm:"type:text" json:"content"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Comments     []Comment `gorm:"foreignKey:PostID" json:"comments"`
}

func (Post) TableName() string {
	return "posts"
}

// PostLike - факт лайка поста пользователем.
// Составной уникальный индекс (post_id, user_id) дает семантику множества:
// повторная вставка той же пары невозможна на уровне БД.
type PostLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"index;uniqueIndex:post_likes_post_user_key" json:"post_id"`
	UserID    int64     `gorm:"uniqueIndex:post_likes_post_user_key" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

// Comment - комментарий к посту. После создания не изменяется и не удаляется.
// Поля автора денормализованы на момент написания, как и у Post.
type Comment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID       int64     `gorm:"index" json:"post_id"`
	AuthorID     int64     `gorm:"index" json:"author_id"`
	AuthorName   string    `gorm:"size:255" json:"author_name"`
	AuthorAvatar string    `gorm:"size:512" json:"author_avatar,omitempty"`
	Text         string    `gorm:"type:text" json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// FeedPost - снапшот поста для ленты с агрегатами вовлеченности
type FeedPost struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int64     `json:"like_count"`
	Liked        bool      `json:"liked"`
	Comments     []Comment `gorm:"-" json:"comments"`
}

// FeedResponse - ответ API для дискавери-ленты.
// Exhausted выставляется только при пустой выдаче.
type FeedResponse struct {
	Posts     []FeedPost `json:"posts"`
	Exhausted bool       `json:"exhausted"`
}

// LikeResult - результат переключения лайка
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
