package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

const (
	redisArticlesKey   = "kb:articles"
	redisTitleIndexKey = "kb:titles"
	redisCredentialKey = "kb:credential"
)

// RedisStore keeps articles as JSON documents in a hash keyed by DOI, with a
// title index hash for the secondary uniqueness rule. HSetNX gives the
// atomic create-if-absent the identifier invariant requires.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs the store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create stores a new article document. The DOI slot is claimed atomically;
// if the title is already taken the DOI slot is released again.
func (s *RedisStore) Create(ctx context.Context, article *models.Article) error {
	doc, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article: %w", err)
	}

	claimed, err := s.client.HSetNX(ctx, redisArticlesKey, article.DOI, doc).Result()
	if err != nil {
		return fmt.Errorf("store article: %w", err)
	}
	if !claimed {
		return appErrors.Clone(appErrors.ErrDuplicateIdentifier, "")
	}

	titleClaimed, err := s.client.HSetNX(ctx, redisTitleIndexKey, article.Title, article.DOI).Result()
	if err != nil {
		_ = s.client.HDel(ctx, redisArticlesKey, article.DOI).Err()
		return fmt.Errorf("index article title: %w", err)
	}
	if !titleClaimed {
		_ = s.client.HDel(ctx, redisArticlesKey, article.DOI).Err()
		return appErrors.Clone(appErrors.ErrDuplicateIdentifier, "an article with this title already exists")
	}

	return nil
}

// ListAll returns every stored article ordered by addition date so the
// listing behaves like the relational backend's insertion order.
func (s *RedisStore) ListAll(ctx context.Context) ([]models.Article, error) {
	docs, err := s.client.HVals(ctx, redisArticlesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	articles := make([]models.Article, 0, len(docs))
	for _, doc := range docs {
		var article models.Article
		if err := json.Unmarshal([]byte(doc), &article); err != nil {
			return nil, fmt.Errorf("decode article: %w", err)
		}
		articles = append(articles, article)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].AdditionDate.Equal(articles[j].AdditionDate) {
			return articles[i].ID < articles[j].ID
		}
		return articles[i].AdditionDate.Before(articles[j].AdditionDate)
	})
	return articles, nil
}

// FindByDOI returns the article stored under the given DOI.
func (s *RedisStore) FindByDOI(ctx context.Context, doi string) (*models.Article, error) {
	doc, err := s.client.HGet(ctx, redisArticlesKey, doi).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find article by doi: %w", err)
	}
	var article models.Article
	if err := json.Unmarshal([]byte(doc), &article); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	return &article, nil
}

// FindByTitle resolves the title index to a DOI and loads the document.
func (s *RedisStore) FindByTitle(ctx context.Context, title string) (*models.Article, error) {
	doi, err := s.client.HGet(ctx, redisTitleIndexKey, title).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find article by title: %w", err)
	}
	return s.FindByDOI(ctx, doi)
}

// FindByLink scans the stored documents for an exact link match. Links are
// not indexed; the collection is small enough to scan.
func (s *RedisStore) FindByLink(ctx context.Context, link string) (*models.Article, error) {
	articles, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		if articles[i].Link == link {
			return &articles[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetCredential returns the stored credential hash.
func (s *RedisStore) GetCredential(ctx context.Context) (string, error) {
	hash, err := s.client.Get(ctx, redisCredentialKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get credential: %w", err)
	}
	return hash, nil
}

// SetCredential stores the credential hash once via SETNX.
func (s *RedisStore) SetCredential(ctx context.Context, hash string) error {
	claimed, err := s.client.SetNX(ctx, redisCredentialKey, hash, 0).Result()
	if err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	if !claimed {
		return appErrors.Clone(appErrors.ErrCredentialExists, "")
	}
	return nil
}
