package zimbra

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/neolist/neolist/internal/abstraction/cache"
	"github.com/neolist/neolist/internal/entity"
	"github.com/rs/zerolog/log"
)

var _ Adapter = (*CalDAVAdapter)(nil)

type CalDAVAdapter struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	authClient *http.Client
	sessions   cache.Cache
	now        func() time.Time
	newUID     func() (string, error)
}

func NewCalDAVAdapter(cfg Config, sessions cache.Cache) (*CalDAVAdapter, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("zimbra: timeout must be positive")
	}
	if cfg.TasksFolder == "" {
		cfg.TasksFolder = "Tasks"
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &CalDAVAdapter{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		authClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			// Zimbra antwortet auf preauth mit einem Redirect; das Cookie steht
			// in genau dieser Antwort.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		sessions: sessions,
		now:      time.Now,
		newUID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}, nil
}

func (a *CalDAVAdapter) objectPath(email, uid string) string {
	return "/" + path.Join("dav", normalizeEmail(email), a.cfg.TasksFolder, uid+".ics")
}

func (a *CalDAVAdapter) CreateTask(ctx context.Context, email string, payload entity.SyncPayload) (*CreateResult, error) {
	uid, err := a.newUID()
	if err != nil {
		return nil, err
	}

	var etag string
	err = a.withClient(ctx, email, func(ctx context.Context, c *caldav.Client) error {
		ctx = withPrecondition(ctx, "If-None-Match")
		obj, err := c.PutCalendarObject(ctx, a.objectPath(email, uid), buildVTodo(uid, payload, a.now()))
		if err != nil {
			return err
		}
		etag = obj.ETag
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("email", email).Str("external_id", uid).Msg("Zimbra-Aufgabe angelegt")
	return &CreateResult{ExternalID: uid, ETag: etag}, nil
}

// UpdateTask überschreibt nur ein vorhandenes Objekt (If-Match: *). Fehlt es,
// liefert der Server 412 und der Fehler erfüllt errors.Is(err, ErrNotFound).
func (a *CalDAVAdapter) UpdateTask(ctx context.Context, email, externalID string, payload entity.SyncPayload) error {
	if externalID == "" {
		return ErrNotFound
	}
	return a.withClient(ctx, email, func(ctx context.Context, c *caldav.Client) error {
		ctx = withPrecondition(ctx, "If-Match")
		_, err := c.PutCalendarObject(ctx, a.objectPath(email, externalID), buildVTodo(externalID, payload, a.now()))
		return err
	})
}

func (a *CalDAVAdapter) DeleteTask(ctx context.Context, email, externalID string) error {
	if externalID == "" {
		return ErrNotFound
	}
	return a.withClient(ctx, email, func(ctx context.Context, c *caldav.Client) error {
		return c.RemoveAll(ctx, a.objectPath(email, externalID))
	})
}

// withClient führt fn mit einer authentifizierten Sitzung aus. Ein abgelaufenes
// Token wird einmal verworfen und neu geholt.
func (a *CalDAVAdapter) withClient(ctx context.Context, email string, fn func(context.Context, *caldav.Client) error) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.New("zimbra: empty account")
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	for attempt := 0; attempt < 2; attempt++ {
		token, err := a.session(ctx, email)
		if err != nil {
			return err
		}

		c, err := caldav.NewClient(&sessionClient{http: a.httpClient, token: token}, a.baseURL+"/dav/")
		if err != nil {
			return err
		}

		err = fn(ctx, c)
		if attempt == 0 && errors.Is(err, ErrUnauthorized) {
			a.dropSession(ctx, email)
			continue
		}
		return err
	}
	return ErrUnauthorized
}

type preconditionKey struct{}

func withPrecondition(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, preconditionKey{}, header)
}

// sessionClient erfüllt webdav.HTTPClient: setzt das Auth-Cookie und macht aus
// Fehlerstatus einen *StatusError, damit die Klassifizierung nicht vom
// Fehlertext der Bibliothek abhängt.
type sessionClient struct {
	http  *http.Client
	token string
}

func (s *sessionClient) Do(req *http.Request) (*http.Response, error) {
	req.AddCookie(&http.Cookie{Name: authCookie, Value: s.token})
	if h, ok := req.Context().Value(preconditionKey{}).(string); ok && req.Method == http.MethodPut {
		req.Header.Set(h, "*")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Method: req.Method, Path: req.URL.Path}
	}
	return resp, nil
}
