package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/talari-hunar/boxoffice/config"
	"github.com/talari-hunar/boxoffice/internal/domain"
)

const (
	ledgerKey  = "boxoffice:reserved-seats"
	journalKey = "boxoffice:sales"
)

// RedisStore keeps each document as one JSON value under a fixed key. A SET
// replaces the whole value, which gives the same whole-document atomicity as
// the file backend.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(cfg config.RedisConfig, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		logger: logger,
	}
}

func (s *RedisStore) LoadLedger(ctx context.Context) (map[string][]string, error) {
	doc := make(map[string][]string)
	if err := s.load(ctx, ledgerKey, &doc); err != nil {
		return make(map[string][]string), nil
	}
	return doc, nil
}

func (s *RedisStore) SaveLedger(ctx context.Context, doc map[string][]string) error {
	if doc == nil {
		doc = make(map[string][]string)
	}
	return s.save(ctx, ledgerKey, doc)
}

func (s *RedisStore) LoadJournal(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := s.load(ctx, journalKey, &sales); err != nil {
		return nil, nil
	}
	return sales, nil
}

func (s *RedisStore) SaveJournal(ctx context.Context, sales []domain.Sale) error {
	if sales == nil {
		sales = []domain.Sale{}
	}
	return s.save(ctx, journalKey, sales)
}

func (s *RedisStore) load(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warnf("read %s, starting empty", key)
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.WithError(err).Warnf("parse %s, starting empty", key)
		return err
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, key string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
