package data

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssetStore_DisabledWithoutBucket(t *testing.T) {
	store, err := NewAssetStore(&conf.Assets{}, testLogger())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "qr-1.png", "image/png", []byte{1})

	assert.ErrorIs(t, err, domain.ErrAssetStoreDisabled)
}

func TestS3AssetStore_Put(t *testing.T) {
	var (
		mu          sync.Mutex
		gotMethod   string
		gotPath     string
		gotType     string
		gotBodySize int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBodySize = len(body)
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewAssetStore(&conf.Assets{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "qr",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		PublicBaseURL:   "https://cdn.example.com/",
	}, testLogger())
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "qr-42.png", "image/png", []byte("png-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/qr-42.png", ref)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/qr/qr-42.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Positive(t, gotBodySize)
}

func TestS3AssetStore_Delete(t *testing.T) {
	var (
		mu        sync.Mutex
		gotMethod string
		gotPath   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotMethod = r.Method
		gotPath = r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store, err := NewAssetStore(&conf.Assets{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "qr",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	}, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "qr-42.png"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/qr/qr-42.png", gotPath)
}

func TestS3AssetStore_PutFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	store, err := NewAssetStore(&conf.Assets{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "qr",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	}, testLogger())
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "qr-42.png", "image/png", []byte("png-bytes"))

	assert.Error(t, err)
	assert.Empty(t, ref)
}
