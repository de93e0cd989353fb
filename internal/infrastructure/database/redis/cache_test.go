package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/helix-insights/madison/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.client = &Client{rdb: db, logger: logging.NewNopLogger()}
	s.cache = NewRedisCache(s.client, logging.NewNopLogger(), WithPrefix("test:"), WithDefaultTTL(time.Minute))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

type cachedBatch struct {
	Source  string `json:"source"`
	Records int    `json:"records"`
}

func (s *CacheTestSuite) TestGetHit() {
	val := cachedBatch{Source: "FDA 510(k)", Records: 42}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:fda:lens:365").SetVal(string(data))

	var dest cachedBatch
	err := s.cache.Get(context.Background(), "fda:lens:365", &dest)

	s.NoError(err)
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGetMiss() {
	s.mock.ExpectGet("test:absent").RedisNil()

	var dest cachedBatch
	err := s.cache.Get(context.Background(), "absent", &dest)

	s.ErrorIs(err, ErrCacheMiss)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheTestSuite) TestSetUsesDefaultTTL() {
	val := cachedBatch{Source: "ClinicalTrials.gov", Records: 7}
	data, _ := json.Marshal(val)
	s.mock.ExpectSet("test:ct:phase", data, time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "ct:phase", val, 0))
}

func (s *CacheTestSuite) TestSetExplicitTTL() {
	val := cachedBatch{Source: "FDA 510(k)", Records: 1}
	data, _ := json.Marshal(val)
	s.mock.ExpectSet("test:k", data, 5*time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "k", val, 5*time.Minute))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
}

func (s *CacheTestSuite) TestDeleteNoKeys() {
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestGetOrSetHitSkipsLoader() {
	val := cachedBatch{Source: "FDA 510(k)", Records: 3}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:hot").SetVal(string(data))

	var dest cachedBatch
	err := s.cache.GetOrSet(context.Background(), "hot", &dest, time.Minute, func(context.Context) (interface{}, error) {
		s.Fail("loader must not run on a hit")
		return nil, nil
	})

	s.NoError(err)
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGetOrSetMissLoadsAndStores() {
	val := cachedBatch{Source: "ClinicalTrials.gov", Records: 9}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:cold").RedisNil()
	s.mock.ExpectSet("test:cold", data, time.Minute).SetVal("OK")

	loaderCalls := 0
	var dest cachedBatch
	err := s.cache.GetOrSet(context.Background(), "cold", &dest, time.Minute, func(context.Context) (interface{}, error) {
		loaderCalls++
		return val, nil
	})

	s.NoError(err)
	s.Equal(1, loaderCalls)
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGetOrSetLoaderError() {
	s.mock.ExpectGet("test:broken").RedisNil()

	loaderErr := pkgerrors.Unavailable("upstream down")
	var dest cachedBatch
	err := s.cache.GetOrSet(context.Background(), "broken", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return nil, loaderErr
	})

	s.ErrorIs(err, loaderErr)
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestClosedClient(t *testing.T) {
	db, _ := redismock.NewClientMock()
	client := &Client{rdb: db, logger: logging.NewNopLogger()}
	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close()) // idempotent

	_, err := client.RDB()
	assert.ErrorIs(t, err, ErrClientClosed)

	cache := NewRedisCache(client, logging.NewNopLogger())
	var dest cachedBatch
	assert.Error(t, cache.Get(context.Background(), "k", &dest))
}
