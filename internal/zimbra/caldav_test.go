package zimbra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, app_errors.Internal(err)
	}
	return true, nil
}

func (m *memCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *app_errors.AppError {
	raw, err := json.Marshal(value)
	if err != nil {
		return app_errors.Internal(err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *memCache) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// fakeZimbra bildet preauth und den Aufgabenordner unter /dav/ nach.
type fakeZimbra struct {
	mu         sync.Mutex
	objects    map[string]string
	preauths   map[string]int
	tokens     map[string]string
	headers    []http.Header
	failStatus int
	delay      time.Duration
}

func newFakeZimbra() *fakeZimbra {
	return &fakeZimbra{
		objects:  map[string]string{},
		preauths: map[string]int{},
		tokens:   map[string]string{},
	}
}

func (f *fakeZimbra) object(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[path]
}

func (f *fakeZimbra) objectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeZimbra) preauthCount(acct string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preauths[acct]
}

func (f *fakeZimbra) lastHeader(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.headers) == 0 {
		return ""
	}
	return f.headers[len(f.headers)-1].Get(name)
}

func (f *fakeZimbra) revokeAll() {
	f.mu.Lock()
	f.tokens = map[string]string{}
	f.mu.Unlock()
}

func (f *fakeZimbra) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/service/preauth" {
		q := r.URL.Query()
		if q.Get("by") != "name" || q.Get("expires") != "0" || q.Get("preauth") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		acct := q.Get("account")
		f.mu.Lock()
		f.preauths[acct]++
		token := fmt.Sprintf("tok-%s-%d", acct, f.preauths[acct])
		f.tokens[token] = acct
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: authCookie, Value: token})
		http.Redirect(w, r, "/zimbra/", http.StatusFound)
		return
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers = append(f.headers, r.Header.Clone())

	c, err := r.Cookie(authCookie)
	if err != nil || f.tokens[c.Value] == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !strings.HasPrefix(r.URL.Path, "/dav/"+f.tokens[c.Value]+"/") {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if f.failStatus != 0 {
		w.WriteHeader(f.failStatus)
		return
	}

	_, exists := f.objects[r.URL.Path]
	switch r.Method {
	case http.MethodPut:
		if (r.Header.Get("If-None-Match") == "*" && exists) || (r.Header.Get("If-Match") == "*" && !exists) {
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusCreated)
	case http.MethodDelete:
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestAdapter(t *testing.T, fake *fakeZimbra, timeout time.Duration) (*CalDAVAdapter, *memCache) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sessions := newMemCache()
	a, err := NewCalDAVAdapter(Config{
		BaseURL:     srv.URL,
		PreauthKey:  "0123456789abcdef",
		TasksFolder: "Tasks",
		Timeout:     timeout,
		SessionTTL:  time.Minute,
	}, sessions)
	require.NoError(t, err)
	return a, sessions
}

func samplePayload() entity.SyncPayload {
	due := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return entity.SyncPayload{
		Title:    "Visite vorbereiten",
		Notes:    "Station 4",
		DueDate:  &due,
		Priority: entity.PriorityUrgent,
	}
}

func TestCreateTask_StoresVTodoAndCachesSession(t *testing.T) {
	fake := newFakeZimbra()
	a, sessions := newTestAdapter(t, fake, 2*time.Second)
	ctx := context.Background()

	res, err := a.CreateTask(ctx, "Alice@Example.com", samplePayload())
	require.NoError(t, err)
	require.NotEmpty(t, res.ExternalID)
	assert.Equal(t, "etag-1", res.ETag)

	body := fake.object("/dav/alice@example.com/Tasks/" + res.ExternalID + ".ics")
	assert.Contains(t, body, "BEGIN:VTODO")
	assert.Contains(t, body, "SUMMARY:Visite vorbereiten")
	assert.Contains(t, body, "PRIORITY:1")
	assert.Contains(t, body, "DUE:20260301T080000Z")
	assert.Contains(t, body, "STATUS:NEEDS-ACTION")
	assert.Equal(t, "*", fake.lastHeader("If-None-Match"))

	_, err = a.CreateTask(ctx, "alice@example.com", samplePayload())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.preauthCount("alice@example.com"))

	var token string
	ok, _ := sessions.Get(ctx, sessionKey("alice@example.com"), &token)
	assert.True(t, ok)
	assert.Equal(t, "tok-alice@example.com-1", token)
}

func TestCreateTask_SessionsAreNotShared(t *testing.T) {
	fake := newFakeZimbra()
	a, _ := newTestAdapter(t, fake, 2*time.Second)
	ctx := context.Background()

	_, err := a.CreateTask(ctx, "alice@example.com", samplePayload())
	require.NoError(t, err)
	_, err = a.CreateTask(ctx, "bob@example.com", samplePayload())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.preauthCount("alice@example.com"))
	assert.Equal(t, 1, fake.preauthCount("bob@example.com"))
}

func TestUpdateTask_Success(t *testing.T) {
	fake := newFakeZimbra()
	a, _ := newTestAdapter(t, fake, 2*time.Second)
	ctx := context.Background()

	res, err := a.CreateTask(ctx, "alice@example.com", samplePayload())
	require.NoError(t, err)

	p := samplePayload()
	p.Title = "Visite erledigt"
	p.Completed = true
	require.NoError(t, a.UpdateTask(ctx, "alice@example.com", res.ExternalID, p))

	body := fake.object("/dav/alice@example.com/Tasks/" + res.ExternalID + ".ics")
	assert.Contains(t, body, "SUMMARY:Visite erledigt")
	assert.Contains(t, body, "STATUS:COMPLETED")
	assert.Contains(t, body, "UID:"+res.ExternalID)
	assert.Equal(t, "*", fake.lastHeader("If-Match"))
}

func TestUpdateTask_MissingObjectIsNotFound(t *testing.T) {
	fake := newFakeZimbra()
	a, _ := newTestAdapter(t, fake, 2*time.Second)

	err := a.UpdateTask(context.Background(), "alice@example.com", "ext-gone", samplePayload())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsTransient(err))
	assert.Zero(t, fake.objectCount())
}

func TestDeleteTask(t *testing.T) {
	fake := newFakeZimbra()
	a, _ := newTestAdapter(t, fake, 2*time.Second)
	ctx := context.Background()

	res, err := a.CreateTask(ctx, "alice@example.com", samplePayload())
	require.NoError(t, err)

	require.NoError(t, a.DeleteTask(ctx, "alice@example.com", res.ExternalID))
	assert.Zero(t, fake.objectCount())

	err = a.DeleteTask(ctx, "alice@example.com", res.ExternalID)
	assert.True(t, IsNotFound(err))
}

func TestAdapter_ServerErrorIsTransient(t *testing.T) {
	fake := newFakeZimbra()
	fake.failStatus = http.StatusServiceUnavailable
	a, _ := newTestAdapter(t, fake, 2*time.Second)

	_, err := a.CreateTask(context.Background(), "alice@example.com", samplePayload())

	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.False(t, IsNotFound(err))
}

func TestIsNotFound_StatusCodeDecides(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"503 mit 412 in der UID", &StatusError{Code: 503, Method: "DELETE", Path: "/dav/a@klinik.de/Tasks/0192f412-7c1e.ics"}, false},
		{"400 mit 404 in der UID", &StatusError{Code: 400, Method: "PUT", Path: "/dav/a@klinik.de/Tasks/0192f404-aaaa.ics"}, false},
		{"gewrappter 503", fmt.Errorf("delete: %w", &StatusError{Code: 503, Path: "/dav/x/Tasks/410.ics"}), false},
		{"404", &StatusError{Code: 404, Path: "/dav/a@klinik.de/Tasks/x.ics"}, true},
		{"410", &StatusError{Code: 410}, true},
		{"412", &StatusError{Code: 412}, true},
		{"Text ohne Status", errors.New("caldav: object not found"), true},
		{"anderer Text", errors.New("caldav: malformed multistatus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestAdapter_TimeoutIsTransient(t *testing.T) {
	fake := newFakeZimbra()
	fake.delay = 300 * time.Millisecond
	a, _ := newTestAdapter(t, fake, 50*time.Millisecond)

	_, err := a.CreateTask(context.Background(), "alice@example.com", samplePayload())

	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestAdapter_ExpiredSessionIsRenewedOnce(t *testing.T) {
	fake := newFakeZimbra()
	a, _ := newTestAdapter(t, fake, 2*time.Second)
	ctx := context.Background()

	_, err := a.CreateTask(ctx, "alice@example.com", samplePayload())
	require.NoError(t, err)

	fake.revokeAll()

	_, err = a.CreateTask(ctx, "alice@example.com", samplePayload())
	require.NoError(t, err)
	assert.Equal(t, 2, fake.preauthCount("alice@example.com"))
	assert.Equal(t, 2, fake.objectCount())
}

func TestNewCalDAVAdapter_RequiresFiniteTimeout(t *testing.T) {
	_, err := NewCalDAVAdapter(Config{BaseURL: "https://mail.example.com"}, nil)
	assert.Error(t, err)

	_, err = NewCalDAVAdapter(Config{Timeout: time.Second}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIcalPriority(t *testing.T) {
	assert.Equal(t, 1, icalPriority(entity.PriorityUrgent))
	assert.Equal(t, 3, icalPriority(entity.PriorityHigh))
	assert.Equal(t, 5, icalPriority(entity.PriorityMedium))
	assert.Equal(t, 9, icalPriority(entity.PriorityLow))
	assert.Equal(t, 0, icalPriority(""))
}

func TestNewAdapter_DisabledWithoutBaseURL(t *testing.T) {
	a, err := NewAdapter(Config{Timeout: time.Second}, newMemCache())
	require.NoError(t, err)
	assert.Nil(t, a)
}
