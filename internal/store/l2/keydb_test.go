package l2

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"catalog-cache/internal/config"
	"catalog-cache/internal/interfaces/mock"
	"catalog-cache/internal/models"
)

func testConfig() config.KeyDBConfig {
	return config.KeyDBConfig{
		Enabled:      true,
		Address:      "localhost:6379",
		ReadTimeout:  100,
		WriteTimeout: 100,
	}
}

func testEntry() *models.Entry {
	return &models.Entry{
		Status:    200,
		Header:    http.Header{"Content-Type": []string{"image/jpeg"}},
		Body:      []byte("poster-bytes"),
		FetchedAt: 1700000000,
	}
}

func TestStore_Match_Hit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	entry := testEntry()
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	client.EXPECT().
		Get(gomock.Any(), "gen:dynamic-v7:GET /a.jpg").
		Return(redis.NewStringResult(string(data), nil))

	got, found := s.Match("dynamic-v7", "GET /a.jpg")
	require.True(t, found)
	assert.Equal(t, entry.Body, got.Body)
	assert.Equal(t, entry.FetchedAt, got.FetchedAt)
}

func TestStore_Match_Miss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	client.EXPECT().
		Get(gomock.Any(), "gen:dynamic-v7:GET /missing").
		Return(redis.NewStringResult("", redis.Nil))

	_, found := s.Match("dynamic-v7", "GET /missing")
	assert.False(t, found)
}

func TestStore_Match_CorruptedEntryIsDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	client.EXPECT().
		Get(gomock.Any(), "gen:dynamic-v7:GET /bad").
		Return(redis.NewStringResult("{not-json", nil))
	client.EXPECT().
		Del(gomock.Any(), "gen:dynamic-v7:GET /bad").
		Return(redis.NewIntResult(1, nil))

	_, found := s.Match("dynamic-v7", "GET /bad")
	assert.False(t, found)
}

func TestStore_Put(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	client.EXPECT().
		Set(gomock.Any(), "gen:dynamic-v7:GET /a.jpg", gomock.Any(), time.Duration(0)).
		Return(redis.NewStatusResult("OK", nil))
	client.EXPECT().
		SAdd(gomock.Any(), generationIndexKey, "dynamic-v7").
		Return(redis.NewIntResult(1, nil))

	s.Put("dynamic-v7", "GET /a.jpg", testEntry())
}

func TestStore_Generations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	client.EXPECT().
		SMembers(gomock.Any(), generationIndexKey).
		Return(redis.NewStringSliceResult([]string{"static-v6", "static-v7"}, nil))

	names, err := s.Generations()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"static-v6", "static-v7"}, names)
}

func TestStore_DeleteGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	keys := []string{"gen:static-v6:GET /index.html", "gen:static-v6:GET /app.js"}
	client.EXPECT().
		Keys(gomock.Any(), "gen:static-v6:*").
		Return(redis.NewStringSliceResult(keys, nil))
	client.EXPECT().
		Del(gomock.Any(), keys[0], keys[1]).
		Return(redis.NewIntResult(2, nil))
	client.EXPECT().
		SRem(gomock.Any(), generationIndexKey, "static-v6").
		Return(redis.NewIntResult(1, nil))

	assert.NoError(t, s.DeleteGeneration("static-v6"))
}

func TestStore_DeleteGeneration_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockKeyDbClient(ctrl)
	s := New(testConfig(), client, zap.NewNop())

	client.EXPECT().
		Keys(gomock.Any(), "gen:static-v5:*").
		Return(redis.NewStringSliceResult(nil, nil))
	client.EXPECT().
		SRem(gomock.Any(), generationIndexKey, "static-v5").
		Return(redis.NewIntResult(0, nil))

	assert.NoError(t, s.DeleteGeneration("static-v5"))
}
