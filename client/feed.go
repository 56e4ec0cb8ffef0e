package client

import (
	"context"
	"platebook/models"
	"sync"
)

// FeedState - состояние контроллера ленты
type FeedState int

const (
	StateIdle FeedState = iota
	StateLoading
	StateLoaded
	StateExhausted
)

func (s FeedState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Sampler - транспорт дискавери-ленты
type Sampler interface {
	SampleFeed(ctx context.Context, excludeIDs []int64, limit int) (*models.FeedResponse, error)
}

// FeedConsumer копит бесконечную ленту на стороне клиента.
// Список постов только дописывается, множество показанных id только растет,
// и то и другое живет до закрытия экрана ленты.
//
// Оба триггера подгрузки (скролл у низа и видимость маркера) сводятся в один
// LoadMore с guard-ом: в полете не больше одного запроса. Ответ запроса,
// пережившего Reset, отбрасывается по номеру поколения.
type FeedConsumer struct {
	mu sync.Mutex

	sampler   Sampler
	batchSize int

	state      FeedState
	posts      []models.FeedPost
	seen       map[int64]struct{}
	inFlight   bool
	generation uint64
	lastErr    error
}

func NewFeedConsumer(sampler Sampler, batchSize int) *FeedConsumer {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &FeedConsumer{
		sampler:   sampler,
		batchSize: batchSize,
		state:     StateIdle,
		seen:      make(map[int64]struct{}),
	}
}

// OnScrollNearBottom - триггер от позиции скролла
func (fc *FeedConsumer) OnScrollNearBottom(ctx context.Context) error {
	return fc.LoadMore(ctx)
}

// OnVisible - триггер от маркера видимости в конце списка
func (fc *FeedConsumer) OnVisible(ctx context.Context) error {
	return fc.LoadMore(ctx)
}

// LoadMore выполняет одну подгрузку страницы.
// В Exhausted и при запросе в полете - no-op. Ошибка транспорта возвращает
// состояние к загружаемому заново, множество исключений при этом не трогаем:
// неудачный вызов не должен его частично пополнить.
func (fc *FeedConsumer) LoadMore(ctx context.Context) error {
	fc.mu.Lock()
	if fc.inFlight || fc.state == StateExhausted {
		fc.mu.Unlock()
		return nil
	}
	fc.inFlight = true
	prevState := fc.state
	fc.state = StateLoading
	gen := fc.generation

	excludeIDs := make([]int64, 0, len(fc.seen))
	for id := range fc.seen {
		excludeIDs = append(excludeIDs, id)
	}
	fc.mu.Unlock()

	resp, err := fc.sampler.SampleFeed(ctx, excludeIDs, fc.batchSize)

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Ответ устаревшего поколения: экран уже сброшен, молча выбрасываем
	if gen != fc.generation {
		return nil
	}
	fc.inFlight = false

	if err != nil {
		// Ошибка не терминальна: возвращаемся в состояние, из которого
		// тот же триггер сможет повторить попытку
		fc.lastErr = err
		fc.state = prevState
		if fc.state == StateLoading {
			fc.state = StateIdle
		}
		return err
	}
	fc.lastErr = nil

	if len(resp.Posts) == 0 {
		fc.state = StateExhausted
		return nil
	}

	for _, p := range resp.Posts {
		if _, dup := fc.seen[p.ID]; dup {
			// Сервер не должен такое возвращать, но рендерить дубль нельзя
			continue
		}
		fc.seen[p.ID] = struct{}{}
		fc.posts = append(fc.posts, p)
	}
	fc.state = StateLoaded
	return nil
}

// Reset сбрасывает сессию ленты (уход с экрана / повторное открытие).
// Поднимает поколение: ответ запроса в полете будет отброшен.
func (fc *FeedConsumer) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.generation++
	fc.inFlight = false
	fc.state = StateIdle
	fc.posts = nil
	fc.seen = make(map[int64]struct{})
	fc.lastErr = nil
}

// ApplyLike локально патчит один загруженный пост после ответа toggleLike.
// Перезапрашивать ленту нельзя: потеряем позицию скролла и заново
// насэмплируем уже показанное.
func (fc *FeedConsumer) ApplyLike(postID int64, liked bool, likeCount int64) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for i := range fc.posts {
		if fc.posts[i].ID == postID {
			fc.posts[i].Liked = liked
			fc.posts[i].LikeCount = likeCount
			return
		}
	}
}

// ApplyComments локально заменяет список комментариев одного поста
// на полный список из ответа addComment
func (fc *FeedConsumer) ApplyComments(postID int64, comments []models.Comment) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for i := range fc.posts {
		if fc.posts[i].ID == postID {
			fc.posts[i].Comments = comments
			return
		}
	}
}

// State возвращает текущее состояние контроллера
func (fc *FeedConsumer) State() FeedState {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.state
}

// LastError возвращает ошибку последней неудачной подгрузки,
// nil после успешной
func (fc *FeedConsumer) LastError() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.lastErr
}

// Posts возвращает копию накопленного списка в порядке показа
func (fc *FeedConsumer) Posts() []models.FeedPost {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	out := make([]models.FeedPost, len(fc.posts))
	copy(out, fc.posts)
	return out
}

// SeenCount возвращает размер множества исключений
func (fc *FeedConsumer) SeenCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.seen)
}
