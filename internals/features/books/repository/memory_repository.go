package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	model "bukuku_backend/internals/features/books/model"
)

// MemoryBookRepository: implementasi in-memory untuk unit test & dev lokal.
// Semua akses dijaga satu mutex.
type MemoryBookRepository struct {
	mu       sync.RWMutex
	books    map[string]model.BookModel
	order    []string
	ratings  []model.BookRatingModel
	features map[string]model.FeatureRowModel
	writes   int

	now func() time.Time
}

func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{
		books:    map[string]model.BookModel{},
		features: map[string]model.FeatureRowModel{},
		now:      time.Now,
	}
}

// Writes: jumlah operasi tulis yang berhasil (buat assert "tidak ada write").
func (m *MemoryBookRepository) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// tick menjamin timestamp naik monoton walau dipanggil beruntun.
func (m *MemoryBookRepository) tick() time.Time {
	t := m.now()
	var last time.Time
	if n := len(m.ratings); n > 0 {
		last = m.ratings[n-1].BookRatingCreatedAt
	}
	if !t.After(last) {
		t = last.Add(time.Microsecond)
	}
	return t
}

func (m *MemoryBookRepository) ratingsOf(bookID string) []model.BookRatingModel {
	out := []model.BookRatingModel{}
	for _, r := range m.ratings {
		if r.BookRatingBookID == bookID {
			out = append(out, r)
		}
	}
	return out
}

func (m *MemoryBookRepository) withRatings(b model.BookModel) *model.BookModel {
	b.Ratings = m.ratingsOf(b.BookID)
	return &b
}

func (m *MemoryBookRepository) CreateBook(_ context.Context, book *model.BookModel, rating *model.BookRatingModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[book.BookID]; ok {
		return ErrDuplicate
	}
	now := m.tick()
	book.BookCreatedAt, book.BookUpdatedAt = now, now
	stored := *book
	stored.Ratings = nil
	m.books[book.BookID] = stored
	m.order = append(m.order, book.BookID)

	if rating != nil {
		rating.BookRatingBookID = book.BookID
		if rating.BookRatingID == uuid.Nil {
			rating.BookRatingID = uuid.New()
		}
		rating.BookRatingCreatedAt = now
		m.ratings = append(m.ratings, *rating)
		book.Ratings = append(book.Ratings, *rating)
	}
	m.writes++
	return nil
}

func (m *MemoryBookRepository) GetBook(_ context.Context, bookID string) (*model.BookModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[bookID]
	if !ok {
		return nil, ErrNotFound
	}
	return m.withRatings(b), nil
}

func (m *MemoryBookRepository) FindBookByTitle(_ context.Context, title string) (*model.BookModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := strings.ToLower(strings.TrimSpace(title))
	for i := len(m.order) - 1; i >= 0; i-- {
		b := m.books[m.order[i]]
		if strings.ToLower(b.BookTitle) == key {
			return m.withRatings(b), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryBookRepository) ListBooks(_ context.Context, offset, limit int) ([]model.BookModel, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := int64(len(m.order))
	ids := m.order
	if limit > 0 {
		if offset >= len(ids) {
			ids = nil
		} else {
			end := offset + limit
			if end > len(ids) {
				end = len(ids)
			}
			ids = ids[offset:end]
		}
	}
	out := make([]model.BookModel, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.withRatings(m.books[id]))
	}
	return out, total, nil
}

func (m *MemoryBookRepository) AppendRating(_ context.Context, rating *model.BookRatingModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rating.BookRatingID == uuid.Nil {
		rating.BookRatingID = uuid.New()
	}
	rating.BookRatingCreatedAt = m.tick()
	m.ratings = append(m.ratings, *rating)
	m.writes++
	return nil
}

func (m *MemoryBookRepository) ListRatings(_ context.Context, bookID string) ([]model.BookRatingModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ratingsOf(bookID), nil
}

func (m *MemoryBookRepository) LatestRating(_ context.Context, userID, bookID string) (*model.BookRatingModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.ratings) - 1; i >= 0; i-- {
		r := m.ratings[i]
		if r.BookRatingBookID == bookID && r.BookRatingUserID != nil && *r.BookRatingUserID == userID {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryBookRepository) RatingBounds(_ context.Context) (RatingBounds, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.ratings) == 0 {
		return RatingBounds{}, ErrNotFound
	}
	scores := make([]float64, len(m.ratings))
	for i, r := range m.ratings {
		scores[i] = r.BookRatingScore
	}
	sort.Float64s(scores)
	return RatingBounds{Min: scores[0], Max: scores[len(scores)-1], Count: int64(len(scores))}, nil
}

func (m *MemoryBookRepository) GetFeatureRow(_ context.Context, title string) (*model.FeatureRowModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.features[model.FeatureRowKeyOf(title)]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *MemoryBookRepository) UpsertFeatureRow(_ context.Context, row *model.FeatureRowModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row.FeatureRowKey = model.FeatureRowKeyOf(row.FeatureRowTitle)
	now := m.now()
	if old, ok := m.features[row.FeatureRowKey]; ok {
		row.FeatureRowCreatedAt = old.FeatureRowCreatedAt
	} else {
		row.FeatureRowCreatedAt = now
	}
	row.FeatureRowUpdatedAt = now
	m.features[row.FeatureRowKey] = *row
	m.writes++
	return nil
}

var _ BookRepository = (*MemoryBookRepository)(nil)
