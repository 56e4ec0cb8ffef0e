package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"platebook/db"
	"platebook/models"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

// Register создает пользователя. Выдача токенов и логин живут во внешнем
// сервисе идентификации, здесь только сама запись профиля.
func (us *UserService) Register(ctx context.Context, nickname, name, avatar, password string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", models.ErrInvalidArgument)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", models.ErrInvalidArgument)
	}
	if strings.TrimSpace(name) == "" {
		name = nickname
	}

	// Проверяем, существует ли пользователь с таким никнеймом
	var alreadyExists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("nickname = ?", nickname).Count(&alreadyExists).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check nickname: %v", models.ErrStoreUnavailable, err)
	}
	if alreadyExists > 0 {
		return nil, fmt.Errorf("%w: nickname %q is taken", models.ErrInvalidArgument, nickname)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	passwordHash := hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash)

	user := &models.User{
		Nickname:  nickname,
		Name:      strings.TrimSpace(name),
		Avatar:    strings.TrimSpace(avatar),
		Password:  passwordHash,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create user: %v", models.ErrStoreUnavailable, err)
	}

	return user, nil
}

// GetUser возвращает профиль по id
func (us *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", models.ErrInvalidArgument)
	}

	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", models.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user: %v", models.ErrStoreUnavailable, err)
	}

	return &user, nil
}
