package correlation

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_AdoptsInboundHeader(t *testing.T) {
	var seen *RequestContext
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), WithServiceName("test_service"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderName, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderName))
	require.NotNil(t, seen)
	assert.Equal(t, "abc-123", seen.CorrelationID)
	assert.Equal(t, "test_service", seen.ServiceName)
}

func TestHandler_HeaderLookupIsCaseInsensitive(t *testing.T) {
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("x-correlation-id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderName))
}

func TestHandler_GeneratesWhenAbsent(t *testing.T) {
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ids := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := rec.Header().Get(HeaderName)
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.NotEqual(t, ids[0], ids[1], "consecutive requests must not share a generated id")
}

func TestHandler_EmptyInboundHeaderTreatedAsAbsent(t *testing.T) {
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderName, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	id := rec.Header().Get(HeaderName)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestHandler_Disabled(t *testing.T) {
	var seen *RequestContext
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}), Disabled())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderName, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Header is neither read nor echoed.
	assert.Empty(t, rec.Header().Get(HeaderName))
	require.NotNil(t, seen)
	assert.Empty(t, seen.CorrelationID)
}

func TestHandler_ResponseTimeHeader(t *testing.T) {
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	ms := rec.Header().Get(ResponseTimeHeader)
	require.NotEmpty(t, ms)
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d{2}$`), ms)
}

func TestHandler_PanicPropagatesAfterCleanup(t *testing.T) {
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.PanicsWithValue(t, "boom", func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	})

	// The response header was attached before the handler ran, so the caller
	// can still correlate the failed request.
	assert.NotEmpty(t, rec.Header().Get(HeaderName))

	// The next request on the same handler sees no leaked identifier.
	var seen string
	ok := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ExtractCorrelationID(r.Context())
	}))
	rec2 := httptest.NewRecorder()
	ok.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NotEmpty(t, seen)
	assert.NotEqual(t, rec.Header().Get(HeaderName), seen)
}

// Two genuinely overlapping requests: A suspends mid-handler while B runs to
// completion. Each must observe only its own identifier.
func TestHandler_ConcurrentIsolation(t *testing.T) {
	aStarted := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	observed := map[string]string{}

	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ExtractCorrelationID(r.Context())
		if r.URL.Path == "/a" {
			close(aStarted)
			<-release
		}
		mu.Lock()
		observed[r.URL.Path] = id
		mu.Unlock()
		_, _ = io.WriteString(w, id)
	}))
	ts := httptest.NewServer(h)
	defer ts.Close()

	headers := map[string]string{}
	var hmu sync.Mutex
	get := func(path string) {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		hmu.Lock()
		headers[path] = resp.Header.Get(HeaderName)
		hmu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		get("/a")
	}()
	go func() {
		defer wg.Done()
		<-aStarted
		get("/b")
		close(release)
	}()
	wg.Wait()

	require.NotEmpty(t, observed["/a"])
	require.NotEmpty(t, observed["/b"])
	assert.NotEqual(t, observed["/a"], observed["/b"])
	assert.Equal(t, headers["/a"], observed["/a"])
	assert.Equal(t, headers["/b"], observed["/b"])
}

func TestHandler_RequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), WithRequestLogger(&logger))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tea", nil))

	out := buf.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, `"path":"/tea"`)
	assert.Contains(t, out, `"status":418`)
}

func TestHandler_RequestLoggingOnPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithRequestLogger(&logger))

	require.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	})

	out := buf.String()
	assert.Contains(t, out, "request panicked")
	assert.Contains(t, out, `"level":"error"`)
}

// Streaming and upgrading handlers type-assert the ResponseWriter; the
// wrapper must not hide what the underlying writer supports.
func TestHandler_PreservesOptionalWriterInterfaces(t *testing.T) {
	type ifaceCheck struct {
		flusher  bool
		hijacker bool
	}
	got := make(chan ifaceCheck, 1)

	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, isFlusher := w.(http.Flusher)
		_, isHijacker := w.(http.Hijacker)
		got <- ifaceCheck{flusher: isFlusher, hijacker: isHijacker}

		_, _ = io.WriteString(w, "chunk")
		w.(http.Flusher).Flush()
	}))
	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	check := <-got
	assert.True(t, check.flusher)
	assert.True(t, check.hijacker)
	assert.Equal(t, "chunk", string(body))
	// Headers, including the response time, went out with the first flush.
	assert.NotEmpty(t, resp.Header.Get(ResponseTimeHeader))
	assert.NotEmpty(t, resp.Header.Get(HeaderName))
}

func TestHandler_ExtraFields(t *testing.T) {
	var seen *RequestContext
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}), WithExtra(map[string]string{"region": "eu-1"}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotNil(t, seen)
	assert.Equal(t, "eu-1", seen.Extra["region"])
}
