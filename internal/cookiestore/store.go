// Package cookiestore persists browser-style cookies for the like button in
// SQLite so the capability marker and the super like chain id survive restarts.
package cookiestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
	scope     TEXT NOT NULL,
	path      TEXT NOT NULL,
	name      TEXT NOT NULL,
	origin    TEXT NOT NULL,
	value     TEXT NOT NULL,
	domain    TEXT NOT NULL DEFAULT '',
	expires   INTEGER NOT NULL DEFAULT 0,
	secure    INTEGER NOT NULL DEFAULT 0,
	http_only INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (scope, path, name)
);
CREATE TABLE IF NOT EXISTS probe (
	id         INTEGER PRIMARY KEY,
	checked_at INTEGER NOT NULL
);
`

// Jar is an http.CookieJar whose contents are mirrored into SQLite.
// Matching rules come from net/http/cookiejar with the public suffix list.
type Jar struct {
	mu     sync.Mutex
	db     *sql.DB
	jar    *cookiejar.Jar
	logger *zap.Logger
	now    func() time.Time
}

var _ http.CookieJar = (*Jar)(nil)

// Open opens (or creates) the cookie database at path and replays unexpired
// cookies into memory. Use ":memory:" for a throwaway jar.
func Open(path string, logger *zap.Logger) (*Jar, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cookie dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cookie db: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cookie schema: %w", err)
	}

	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	j := &Jar{db: db, jar: inner, logger: logger, now: time.Now}
	if err := j.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close releases the database handle.
func (j *Jar) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// SetCookies implements http.CookieJar. Persistence failures are logged; the
// in-memory jar is always updated.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)
	for _, c := range cookies {
		if err := j.persist(u, c); err != nil {
			j.logger.Warn("persist cookie failed",
				zap.String("name", c.Name),
				zap.String("host", u.Hostname()),
				zap.Error(err))
		}
	}
}

// Set stores a single cookie for u.
func (j *Jar) Set(u *url.URL, c *http.Cookie) {
	j.SetCookies(u, []*http.Cookie{c})
}

// Get returns the value of the cookie called name that would be sent to u.
func (j *Jar) Get(u *url.URL, name string) (string, bool) {
	for _, c := range j.jar.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// CheckAccess verifies the store accepts writes.
func (j *Jar) CheckAccess(ctx context.Context) error {
	if j == nil || j.db == nil {
		return errors.New("cookie store is closed")
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO probe (id, checked_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET checked_at = excluded.checked_at`,
		j.now().Unix())
	if err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return nil
}

func (j *Jar) persist(u *url.URL, c *http.Cookie) error {
	scope := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
	if scope == "" {
		scope = strings.ToLower(u.Hostname())
	}
	path := c.Path
	if path == "" {
		path = defaultPath(u.Path)
	}

	if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(j.now())) {
		_, err := j.db.Exec(`DELETE FROM cookies WHERE scope = ? AND path = ? AND name = ?`, scope, path, c.Name)
		return err
	}

	var expires int64
	switch {
	case c.MaxAge > 0:
		expires = j.now().Add(time.Duration(c.MaxAge) * time.Second).Unix()
	case !c.Expires.IsZero():
		expires = c.Expires.Unix()
	}

	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	_, err := j.db.Exec(`
		INSERT INTO cookies (scope, path, name, origin, value, domain, expires, secure, http_only, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(scope, path, name) DO UPDATE SET
			origin = excluded.origin,
			value = excluded.value,
			domain = excluded.domain,
			expires = excluded.expires,
			secure = excluded.secure,
			http_only = excluded.http_only,
			updated_at = CURRENT_TIMESTAMP`,
		scope, path, c.Name, origin, c.Value, c.Domain, expires, c.Secure, c.HttpOnly)
	return err
}

func (j *Jar) load() error {
	now := j.now().Unix()
	if _, err := j.db.Exec(`DELETE FROM cookies WHERE expires > 0 AND expires <= ?`, now); err != nil {
		return fmt.Errorf("prune cookies: %w", err)
	}

	rows, err := j.db.Query(`SELECT origin, path, name, value, domain, expires, secure, http_only FROM cookies`)
	if err != nil {
		return fmt.Errorf("load cookies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			origin, path, name, value, domain string
			expires                           int64
			secure, httpOnly                  bool
		)
		if err := rows.Scan(&origin, &path, &name, &value, &domain, &expires, &secure, &httpOnly); err != nil {
			return fmt.Errorf("scan cookie: %w", err)
		}
		u, err := url.Parse(origin)
		if err != nil {
			j.logger.Warn("skip cookie with bad origin", zap.String("origin", origin), zap.Error(err))
			continue
		}
		c := &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     path,
			Domain:   domain,
			Secure:   secure,
			HttpOnly: httpOnly,
		}
		if expires > 0 {
			c.Expires = time.Unix(expires, 0)
		}
		j.jar.SetCookies(u, []*http.Cookie{c})
	}
	return rows.Err()
}

// defaultPath mirrors RFC 6265 section 5.1.4.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}
