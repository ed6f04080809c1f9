package strategy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"catalog-cache/internal/interfaces/mock"
	"catalog-cache/internal/models"
)

func okEntry(body string) *models.Entry {
	return &models.Entry{
		Status:    200,
		Header:    http.Header{"Content-Type": []string{"application/octet-stream"}},
		Body:      []byte(body),
		FetchedAt: 1700000000,
	}
}

func TestCacheFirst_HitSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mock.NewMockStore(ctrl)
	fetcher := mock.NewMockFetcher(ctrl)
	s := NewCacheFirst(st, fetcher, "dynamic-v7", "", zap.NewNop())

	entry := okEntry("cached")
	st.EXPECT().Match("dynamic-v7", "GET /favicon.ico").Return(entry, true)
	// No fetch expectation: the network must not be consulted on a hit.

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	result, err := s.Serve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, result.Status)
	assert.Equal(t, entry, result.Entry)
}

func TestCacheFirst_MissFetchesAndStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mock.NewMockStore(ctrl)
	fetcher := mock.NewMockFetcher(ctrl)
	s := NewCacheFirst(st, fetcher, "dynamic-v7", "", zap.NewNop())

	entry := okEntry("live")
	st.EXPECT().Match("dynamic-v7", "GET /favicon.ico").Return(nil, false)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(entry, nil)
	st.EXPECT().Put("dynamic-v7", "GET /favicon.ico", entry)

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	result, err := s.Serve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, result.Status)
	assert.Equal(t, entry, result.Entry)
}

func TestCacheFirst_ErrorResponseIsNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mock.NewMockStore(ctrl)
	fetcher := mock.NewMockFetcher(ctrl)
	s := NewCacheFirst(st, fetcher, "dynamic-v7", "", zap.NewNop())

	notFound := &models.Entry{Status: 404, Body: []byte("not found"), FetchedAt: 1700000000}
	st.EXPECT().Match("dynamic-v7", "GET /gone").Return(nil, false)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(notFound, nil)
	// No Put expectation: only 2xx responses are storable.

	req := httptest.NewRequest(http.MethodGet, "/gone", nil)
	result, err := s.Serve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 404, result.Entry.Status)
}

func TestCacheFirst_MissFallsBackToInstalledShellEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mock.NewMockStore(ctrl)
	fetcher := mock.NewMockFetcher(ctrl)
	s := NewCacheFirst(st, fetcher, "dynamic-v7", "static-v7", zap.NewNop())

	installed := okEntry("manifest")
	st.EXPECT().Match("dynamic-v7", "GET /manifest.json").Return(nil, false)
	st.EXPECT().Match("static-v7", "GET /manifest.json").Return(installed, true)
	// No fetch expectation: the static copy satisfies the request.

	req := httptest.NewRequest(http.MethodGet, "/manifest.json", nil)
	result, err := s.Serve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, result.Status)
	assert.Equal(t, installed, result.Entry)
}

func TestCacheFirst_MissWithNetworkFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mock.NewMockStore(ctrl)
	fetcher := mock.NewMockFetcher(ctrl)
	s := NewCacheFirst(st, fetcher, "dynamic-v7", "", zap.NewNop())

	st.EXPECT().Match("dynamic-v7", "GET /favicon.ico").Return(nil, false)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	_, err := s.Serve(context.Background(), req)

	assert.Error(t, err)
}
