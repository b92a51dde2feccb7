package zimbra

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const authCookie = "ZM_AUTH_TOKEN"

func sessionKey(email string) string {
	return "zimbra:session:" + normalizeEmail(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// preauthValue berechnet HMAC-SHA1(key, "account|name|expires|timestamp").
func preauthValue(key, account string, timestamp int64) string {
	mac := hmac.New(sha1.New, []byte(key))
	fmt.Fprintf(mac, "%s|name|0|%d", account, timestamp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *CalDAVAdapter) preauth(ctx context.Context, email string) (string, error) {
	ts := a.now().UnixMilli()
	q := url.Values{}
	q.Set("account", email)
	q.Set("by", "name")
	q.Set("timestamp", strconv.FormatInt(ts, 10))
	q.Set("expires", "0")
	q.Set("preauth", preauthValue(a.cfg.PreauthKey, email, ts))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/service/preauth?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := a.authClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &StatusError{Code: resp.StatusCode, Method: req.Method, Path: "/service/preauth"}
	}

	for _, c := range resp.Cookies() {
		if c.Name == authCookie && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("%w: preauth for %s returned no %s cookie", ErrUnauthorized, email, authCookie)
}

// session liefert das Auth-Token für email, zuerst aus dem Cache. Tokens werden
// ausschließlich pro Adresse abgelegt.
func (a *CalDAVAdapter) session(ctx context.Context, email string) (string, error) {
	var token string
	if a.sessions != nil {
		ok, cacheErr := a.sessions.Get(ctx, sessionKey(email), &token)
		if cacheErr != nil {
			log.Warn().Err(cacheErr).Str("email", email).Msg("Zimbra-Session-Cache nicht lesbar")
		}
		if ok && token != "" {
			return token, nil
		}
	}

	token, err := a.preauth(ctx, email)
	if err != nil {
		return "", err
	}

	if a.sessions != nil {
		if cacheErr := a.sessions.Set(ctx, sessionKey(email), token, a.cfg.SessionTTL); cacheErr != nil {
			log.Warn().Err(cacheErr).Str("email", email).Msg("Zimbra-Session konnte nicht gecacht werden")
		}
	}
	return token, nil
}

func (a *CalDAVAdapter) dropSession(ctx context.Context, email string) {
	if a.sessions == nil {
		return
	}
	if err := a.sessions.Del(ctx, sessionKey(email)); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Zimbra-Session konnte nicht verworfen werden")
	}
}

