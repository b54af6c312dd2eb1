package httpsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"splitmark/internal/application"
	"splitmark/internal/domain"
)

const manifestJSON = `{
  "label": "壹越調",
  "sequences": [{"canvases": [
    {"images": [{"resource": {"@id": "http://img/0.jpg", "service": {"@id": "http://iiif/0"}}}]},
    {"images": [{"resource": {"@id": "http://img/1.jpg"}}]}
  ]}]
}`

func newTestSource() *Source {
	return New(Options{Attempts: 3, Delay: time.Millisecond, Timeout: 5 * time.Second})
}

func TestFetchManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(manifestJSON))
	}))
	defer srv.Close()

	m, err := newTestSource().FetchManifest(context.Background(), srv.URL+"/gagaku/volume1_manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "壹越調", m.Label)
	assert.Len(t, m.Pages(), 2)
}

func TestFetchManifest_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sequences": [`))
	}))
	defer srv.Close()

	_, err := newTestSource().FetchManifest(context.Background(), srv.URL+"/m.json")
	require.ErrorIs(t, err, application.ErrParse)
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestSource().FetchIndex(context.Background(), srv.URL+"/gagaku/manifest-index.json")
	require.ErrorIs(t, err, application.ErrFetch)
	assert.True(t, application.IsNotFound(err))
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetch_ServerErrorIsRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"manifests": [{"@id": "http://x/c/volume0_manifest.json", "label": "a"}]}`))
	}))
	defer srv.Close()

	idx, err := newTestSource().FetchIndex(context.Background(), srv.URL+"/c/manifest-index.json")
	require.NoError(t, err)
	assert.Len(t, idx.Manifests, 1)
	assert.EqualValues(t, 3, hits.Load())
}

func TestFetch_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestSource().FetchManifest(context.Background(), srv.URL+"/m.json")
	var fe *application.FetchError
	require.True(t, errors.As(err, &fe), "expected FetchError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/c/volume0_manifest.json" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := newTestSource()
	assert.NoError(t, s.Probe(context.Background(), srv.URL+"/c/volume0_manifest.json"))
	assert.Error(t, s.Probe(context.Background(), srv.URL+"/c/volume1_manifest.json"))
}

func TestDiscovery_OverHTTP(t *testing.T) {
	defer goleak.VerifyNone(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/gagaku/manifest-index.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/gagaku/volume0_manifest.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label": "目録", "sequences": []}`))
	})
	mux.HandleFunc("/gagaku/volume1_manifest.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/gagaku/volume2_manifest.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sequences": []}`))
	})
	srv := httptest.NewServer(mux)

	src := New(Options{Attempts: 1, Timeout: 5 * time.Second})
	r := application.NewResolver(src, nil, application.ResolverConfig{BaseURL: srv.URL + "/", MaxVolume: 3}, nil)

	entries, source, err := r.Resolve(context.Background(), "gagaku", false)
	srv.Close()
	src.client.CloseIdleConnections()

	require.NoError(t, err)
	assert.Equal(t, application.SourceDiscovery, source)
	assert.Equal(t, []domain.VolumeEntry{
		{Filename: "volume0_manifest.json", VolumeNumber: 0, Label: "目録"},
		{Filename: "volume2_manifest.json", VolumeNumber: 2, Label: "Volume 2"},
	}, entries)
}
