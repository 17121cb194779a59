package likeco

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Service is the set of backend calls the like button consumes.
// It is implemented by *Client and can be faked in tests.
type Service interface {
	GetUserMinByID(ctx context.Context, id string) (UserMin, error)
	GetLikeButtonMyStatus(ctx context.Context, id string, meta Metadata) (MyStatus, error)
	GetLikeButtonSelfCount(ctx context.Context, id, referrer string) (SelfCount, error)
	GetLikeButtonTotalCount(ctx context.Context, id, referrer string) (TotalCount, error)
	PostLike(ctx context.Context, id string, count int, meta Metadata) error
	GetSuperLikeMyStatus(ctx context.Context, tz, referrer string) (SuperLikeStatus, error)
	PostSuperLike(ctx context.Context, id string, req SuperLikeRequest) error
	GetMyBookmark(ctx context.Context, referrer string) (Bookmark, error)
	AddMyBookmark(ctx context.Context, referrer string, meta Metadata) (Bookmark, error)
	DeleteMyBookmark(ctx context.Context, bookmarkID string, meta Metadata) error
	GetMyFollower(ctx context.Context, creatorID string) (FollowStatus, error)
	AddMyFollower(ctx context.Context, creatorID string, meta Metadata) error
	GetSupportingUserByID(ctx context.Context, creatorID string) (SupportingUser, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the LikeCoin HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	authToken string
}

const (
	defaultAPIBase   = "https://api.like.co"
	defaultUserAgent = "liker/0.1"
	requestTimeout   = 5 * time.Second
)

// Options tune a Client. The zero value is usable.
type Options struct {
	AuthToken string
	Jar       http.CookieJar
	Timeout   time.Duration
}

// NewClient builds a Client for the API rooted at apiBase.
func NewClient(apiBase string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
			Jar:     opts.Jar,
		},
		userAgent: defaultUserAgent,
		authToken: strings.TrimSpace(opts.AuthToken),
	}, nil
}

// BaseURL returns a copy of the API root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// StatusError reports a non-2xx API response.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// GetUserMinByID fetches the public profile of a creator.
func (c *Client) GetUserMinByID(ctx context.Context, id string) (UserMin, error) {
	if err := requireID(id); err != nil {
		return UserMin{}, err
	}
	var payload UserMin
	rel := apiPath("users", "id", id, "min")
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return UserMin{}, err
	}
	return payload, nil
}

// GetLikeButtonMyStatus fetches the viewer's session state for a creator.
func (c *Client) GetLikeButtonMyStatus(ctx context.Context, id string, meta Metadata) (MyStatus, error) {
	if err := requireID(id); err != nil {
		return MyStatus{}, err
	}
	rel := apiPath("like", "likebutton", id, "self", "status")
	rel.RawQuery = metadataValues(meta).Encode()
	var payload MyStatus
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return MyStatus{}, err
	}
	return payload, nil
}

// GetLikeButtonSelfCount fetches how many times the viewer liked (creator, referrer).
func (c *Client) GetLikeButtonSelfCount(ctx context.Context, id, referrer string) (SelfCount, error) {
	if err := requireID(id); err != nil {
		return SelfCount{}, err
	}
	rel := apiPath("like", "likebutton", id, "self")
	rel.RawQuery = referrerValues(referrer).Encode()
	var payload SelfCount
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return SelfCount{}, err
	}
	return payload, nil
}

// GetLikeButtonTotalCount fetches the total like count for (creator, referrer).
func (c *Client) GetLikeButtonTotalCount(ctx context.Context, id, referrer string) (TotalCount, error) {
	if err := requireID(id); err != nil {
		return TotalCount{}, err
	}
	rel := apiPath("like", "likebutton", id, "total")
	rel.RawQuery = referrerValues(referrer).Encode()
	var payload TotalCount
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return TotalCount{}, err
	}
	return payload, nil
}

// PostLike records count additional likes.
func (c *Client) PostLike(ctx context.Context, id string, count int, meta Metadata) error {
	if err := requireID(id); err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("like count must be positive, got %d", count)
	}
	rel := apiPath("like", "likebutton", id, strconv.Itoa(count))
	return c.do(ctx, http.MethodPost, rel, meta, nil)
}

// GetSuperLikeMyStatus fetches the viewer's super like eligibility and cooldown.
func (c *Client) GetSuperLikeMyStatus(ctx context.Context, tz, referrer string) (SuperLikeStatus, error) {
	values := referrerValues(referrer)
	if tz != "" {
		values.Set("tz", tz)
	}
	rel := apiPath("like", "share", "self")
	rel.RawQuery = values.Encode()
	var payload SuperLikeStatus
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return SuperLikeStatus{}, err
	}
	return payload, nil
}

// PostSuperLike super likes the creator.
func (c *Client) PostSuperLike(ctx context.Context, id string, req SuperLikeRequest) error {
	if err := requireID(id); err != nil {
		return err
	}
	rel := apiPath("like", "share", id)
	return c.do(ctx, http.MethodPost, rel, req, nil)
}

// GetMyBookmark looks up the viewer's bookmark for referrer.
func (c *Client) GetMyBookmark(ctx context.Context, referrer string) (Bookmark, error) {
	rel := apiPath("users", "bookmarks")
	rel.RawQuery = bookmarkValues(referrer).Encode()
	var payload Bookmark
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return Bookmark{}, err
	}
	return payload, nil
}

// AddMyBookmark bookmarks referrer for the viewer.
func (c *Client) AddMyBookmark(ctx context.Context, referrer string, meta Metadata) (Bookmark, error) {
	rel := apiPath("users", "bookmarks")
	rel.RawQuery = bookmarkValues(referrer).Encode()
	var payload Bookmark
	if err := c.do(ctx, http.MethodPost, rel, meta, &payload); err != nil {
		return Bookmark{}, err
	}
	return payload, nil
}

// DeleteMyBookmark removes a bookmark by id.
func (c *Client) DeleteMyBookmark(ctx context.Context, bookmarkID string, meta Metadata) error {
	if strings.TrimSpace(bookmarkID) == "" {
		return fmt.Errorf("bookmark id required")
	}
	rel := apiPath("users", "bookmarks", bookmarkID)
	return c.do(ctx, http.MethodDelete, rel, meta, nil)
}

// GetMyFollower reports whether the viewer follows creatorID.
func (c *Client) GetMyFollower(ctx context.Context, creatorID string) (FollowStatus, error) {
	if err := requireID(creatorID); err != nil {
		return FollowStatus{}, err
	}
	rel := apiPath("users", "follow", "users", creatorID)
	var payload FollowStatus
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return FollowStatus{}, err
	}
	return payload, nil
}

// AddMyFollower follows creatorID.
func (c *Client) AddMyFollower(ctx context.Context, creatorID string, meta Metadata) error {
	if err := requireID(creatorID); err != nil {
		return err
	}
	rel := apiPath("users", "follow", "users", creatorID)
	return c.do(ctx, http.MethodPost, rel, meta, nil)
}

// GetSupportingUserByID fetches how many support units the viewer holds for creatorID.
func (c *Client) GetSupportingUserByID(ctx context.Context, creatorID string) (SupportingUser, error) {
	if err := requireID(creatorID); err != nil {
		return SupportingUser{}, err
	}
	rel := apiPath("civic", "support", "users", creatorID)
	var payload SupportingUser
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return SupportingUser{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.Path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiPath builds a relative URL from path segments, escaping each one.
func apiPath(segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return &url.URL{
		Path:    "/" + strings.Join(segments, "/"),
		RawPath: "/" + strings.Join(escaped, "/"),
	}
}

func metadataValues(meta Metadata) url.Values {
	values := referrerValues(meta.Referrer)
	values.Set("isCookieSupport", strconv.FormatBool(meta.IsCookieSupport))
	if meta.DocumentReferrer != "" {
		values.Set("documentReferrer", meta.DocumentReferrer)
	}
	if meta.SessionID != "" {
		values.Set("sessionID", meta.SessionID)
	}
	if meta.Type != "" {
		values.Set("type", meta.Type)
	}
	if meta.Integration != "" {
		values.Set("integration", meta.Integration)
	}
	return values
}

func referrerValues(referrer string) url.Values {
	values := url.Values{}
	if r := strings.TrimSpace(referrer); r != "" {
		values.Set("referrer", r)
	}
	return values
}

func bookmarkValues(referrer string) url.Values {
	values := url.Values{}
	if r := strings.TrimSpace(referrer); r != "" {
		values.Set("url", r)
	}
	return values
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("creator id required")
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
