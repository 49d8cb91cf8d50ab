package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "flexui_test.db")
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := []byte(`{"screenId":"home","root":{"type":"text"}}`)
	require.NoError(t, s.Put(ctx, "home", "1.0", doc))

	got, err := s.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "home", "1.0", []byte(`{"v":1}`)))
	require.NoError(t, s.Put(ctx, "home", "1.1", []byte(`{"v":2}`)))

	got, err := s.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), got)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "1.1", infos[0].Version)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "home", "1.0", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, "home"))

	_, err := s.Get(ctx, "home")
	assert.ErrorIs(t, err, ErrNotFound)

	// Unknown ids delete cleanly.
	assert.NoError(t, s.Delete(ctx, "never-stored"))
}

func TestStore_List(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", "1.0", []byte(`{}`)))
	require.NoError(t, s.Put(ctx, "b", "1.0", []byte(`{}`)))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.False(t, info.UpdatedAt.IsZero())
	}
}

func TestFetcher_Fetch(t *testing.T) {
	var gotPath, gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"screenId":"home"}`))
	}))
	defer backend.Close()

	f := NewFetcher(backend.URL, nil)
	data, err := f.Fetch(context.Background(), "home", map[string]string{"user": "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"screenId":"home"}`, string(data))
	assert.Equal(t, "/screens/home", gotPath)
	assert.Equal(t, "user=u1", gotQuery)
}

func TestFetcher_NotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	_, err := NewFetcher(backend.URL, nil).Fetch(context.Background(), "gone", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetcher_ServerError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	_, err := NewFetcher(backend.URL, nil).Fetch(context.Background(), "home", nil)
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestLoader_CacheHitSkipsFetch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "home", "1.0", []byte(`{"cached":true}`)))

	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"remote":true}`))
	}))
	defer backend.Close()

	l := NewLoader(s, NewFetcher(backend.URL, nil))
	data, err := l.Load(ctx, "home", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"cached":true}`), data)
	assert.Zero(t, calls.Load())
}

func TestLoader_MissFetchesAndBackfills(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := `{"version":"1.2","screenId":"home","root":{"type":"text"}}`
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(doc))
	}))
	defer backend.Close()

	l := NewLoader(s, NewFetcher(backend.URL, nil))
	data, err := l.Load(ctx, "home", nil)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))

	cached, err := s.Get(ctx, "home")
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(cached))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "1.2", infos[0].Version)
}

func TestLoader_MalformedRemoteNotCached(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"root":{}}`)) // missing screenId
	}))
	defer backend.Close()

	l := NewLoader(s, NewFetcher(backend.URL, nil))
	data, err := l.Load(ctx, "home", nil)
	require.NoError(t, err, "the raw document is still returned")
	assert.NotEmpty(t, data)

	_, err = s.Get(ctx, "home")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_NoFetcher(t *testing.T) {
	s := openTestStore(t)
	_, err := NewLoader(s, nil).Load(context.Background(), "home", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
