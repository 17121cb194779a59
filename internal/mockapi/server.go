// Package mockapi emulates the like button backend in memory. It backs the
// `liker mock` command and the end to end tests.
package mockapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/five82/liker/internal/likeco"
)

const (
	likerKey          = "liker"
	superLikeIDCookie = "likebutton_superlike_id"
	markerCookie      = "likebutton_cookie"
)

// Server serves the emulated API.
type Server struct {
	store  *Store
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// New builds the router over store. A nil logger disables request logging.
func New(store *Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{store: store, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests, s.authenticate)

	r.GET("/users/id/:id/min", s.handleUser)

	r.GET("/like/likebutton/:id/self/status", s.handleMyStatus)
	r.GET("/like/likebutton/:id/self", s.handleSelfCount)
	r.GET("/like/likebutton/:id/total", s.handleTotal)
	r.POST("/like/likebutton/:id/:count", s.requireLiker, s.handleLike)

	r.GET("/like/share/self", s.requireLiker, s.handleSuperLikeStatus)
	r.POST("/like/share/:id", s.requireLiker, s.handleSuperLike)

	r.GET("/users/bookmarks", s.requireLiker, s.handleGetBookmark)
	r.POST("/users/bookmarks", s.requireLiker, s.handleAddBookmark)
	r.DELETE("/users/bookmarks/:id", s.requireLiker, s.handleDeleteBookmark)

	r.GET("/users/follow/users/:id", s.requireLiker, s.handleGetFollow)
	r.POST("/users/follow/users/:id", s.requireLiker, s.handleFollow)

	r.GET("/civic/support/users/:id", s.requireLiker, s.handleSupport)

	s.engine = r
	return s
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.engine }

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:           s.engine,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("mock api listening", zap.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("mock api request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("liker", c.GetString(likerKey)))
}

// authenticate resolves "Authorization: Bearer <liker id>". Unknown tokens
// are treated as anonymous.
func (s *Server) authenticate(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if ok {
		if v, known := s.store.viewer(strings.TrimSpace(token)); known {
			c.Set(likerKey, v.ID)
		}
	}
	c.Next()
}

func (s *Server) requireLiker(c *gin.Context) {
	if c.GetString(likerKey) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "LOGIN_NEEDED"})
		return
	}
	c.Next()
}

func (s *Server) handleUser(c *gin.Context) {
	u, err := s.store.user(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) handleMyStatus(c *gin.Context) {
	if !s.store.hasCreator(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
		return
	}
	liker := c.GetString(likerKey)
	v, _ := s.store.viewer(liker)
	status := likeco.MyStatus{
		Liker:             liker,
		IsSubscribed:      v.IsSubscribed,
		IsTrialSubscriber: v.IsTrialSubscriber,
		CivicLikerVersion: v.CivicLikerVersion,
	}
	if _, err := c.Cookie(markerCookie); err == nil {
		supported := true
		status.ServerCookieSupported = &supported
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleSelfCount(c *gin.Context) {
	liker := c.GetString(likerKey)
	var count int
	if liker != "" {
		count = s.store.selfCount(liker, c.Param("id"), c.Query("referrer"))
	}
	c.JSON(http.StatusOK, likeco.SelfCount{Count: count, Liker: liker})
}

func (s *Server) handleTotal(c *gin.Context) {
	c.JSON(http.StatusOK, likeco.TotalCount{Total: s.store.total(c.Param("id"), c.Query("referrer"))})
}

func (s *Server) handleLike(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 || count > maxLike {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_LIKE_COUNT"})
		return
	}
	var meta likeco.Metadata
	if err := c.ShouldBindJSON(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_PAYLOAD"})
		return
	}
	if _, err := s.store.like(c.GetString(likerKey), c.Param("id"), meta.Referrer, count); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleSuperLikeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.superLikeStatus(c.GetString(likerKey)))
}

func (s *Server) handleSuperLike(c *gin.Context) {
	var req likeco.SuperLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_PAYLOAD"})
		return
	}
	id, err := s.store.superLike(c.GetString(likerKey), c.Param("id"), req.Referrer)
	switch {
	case errors.Is(err, errNotSuperLiker):
		c.JSON(http.StatusForbidden, gin.H{"error": "NOT_CIVIC_LIKER"})
		return
	case errors.Is(err, errCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "SUPERLIKE_COOLDOWN"})
		return
	case err != nil:
		c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
		return
	}
	c.SetCookie(superLikeIDCookie, id, int((30 * 24 * time.Hour).Seconds()), "/", "", false, false)
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleGetBookmark(c *gin.Context) {
	b, ok := s.store.bookmark(c.GetString(likerKey), c.Query("url"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "BOOKMARK_NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, likeco.Bookmark{ID: b.id, URL: b.url})
}

func (s *Server) handleAddBookmark(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_URL"})
		return
	}
	b := s.store.addBookmark(c.GetString(likerKey), url)
	c.JSON(http.StatusOK, likeco.Bookmark{ID: b.id, URL: b.url})
}

func (s *Server) handleDeleteBookmark(c *gin.Context) {
	if err := s.store.deleteBookmark(c.GetString(likerKey), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "BOOKMARK_NOT_FOUND"})
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleGetFollow(c *gin.Context) {
	c.JSON(http.StatusOK, likeco.FollowStatus{IsFollowed: s.store.isFollowing(c.GetString(likerKey), c.Param("id"))})
}

func (s *Server) handleFollow(c *gin.Context) {
	if err := s.store.follow(c.GetString(likerKey), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleSupport(c *gin.Context) {
	c.JSON(http.StatusOK, likeco.SupportingUser{Quantity: s.store.supporting(c.GetString(likerKey), c.Param("id"))})
}
