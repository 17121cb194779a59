package mockapi

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/liker/internal/likeco"
)

const maxLike = 5

var (
	errUnknownCreator = errors.New("unknown creator")
	errNotSuperLiker  = errors.New("not a super liker")
	errCooldown       = errors.New("super like cooling down")
	errNoBookmark     = errors.New("bookmark not found")
)

// Creator is a seeded creator profile.
type Creator struct {
	ID                   string
	DisplayName          string
	Avatar               string
	PreRegCivicLiker     bool
	CivicLikerTrial      bool
	SubscribedCivicLiker bool
	CivicLikerSince      time.Time
}

// Viewer is a seeded signed-in account. Its bearer token is its ID.
type Viewer struct {
	ID                string
	IsSubscribed      bool
	IsTrialSubscriber bool
	IsSuperLiker      bool
	CivicLikerVersion int
	// Supporting maps creator ids to support quantity.
	Supporting map[string]int
}

type likeKey struct {
	liker, creator, referrer string
}

type superLike struct {
	id       string
	creator  string
	referrer string
	at       time.Time
}

type bookmark struct {
	id  string
	url string
}

// Store is the in-memory backend state.
type Store struct {
	mu         sync.Mutex
	creators   map[string]Creator
	viewers    map[string]Viewer
	likes      map[likeKey]int
	superLikes map[string][]superLike
	bookmarks  map[string][]bookmark
	follows    map[string]map[string]bool
	cooldown   time.Duration
	now        func() time.Time
}

// NewStore returns an empty store with the given super like cooldown.
func NewStore(cooldown time.Duration) *Store {
	if cooldown <= 0 {
		cooldown = 8 * time.Hour
	}
	return &Store{
		creators:   make(map[string]Creator),
		viewers:    make(map[string]Viewer),
		likes:      make(map[likeKey]int),
		superLikes: make(map[string][]superLike),
		bookmarks:  make(map[string][]bookmark),
		follows:    make(map[string]map[string]bool),
		cooldown:   cooldown,
		now:        time.Now,
	}
}

// DemoStore is seeded with a few creators and viewers for `liker mock`.
func DemoStore() *Store {
	s := NewStore(0)
	since := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	s.AddCreator(Creator{ID: "alice", DisplayName: "Alice", CivicLikerTrial: true, CivicLikerSince: since})
	s.AddCreator(Creator{ID: "bob", DisplayName: "Bob", SubscribedCivicLiker: true, CivicLikerSince: since})
	s.AddCreator(Creator{ID: "dave"})
	s.AddViewer(Viewer{ID: "alice", IsSuperLiker: true, IsSubscribed: true, CivicLikerVersion: 2})
	s.AddViewer(Viewer{ID: "bob", IsSuperLiker: true, IsSubscribed: true, CivicLikerVersion: 1})
	s.AddViewer(Viewer{ID: "carol", CivicLikerVersion: 2, Supporting: map[string]int{"alice": 2}})
	s.AddViewer(Viewer{ID: "dave"})
	return s
}

func (s *Store) AddCreator(c Creator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creators[c.ID] = c
}

func (s *Store) AddViewer(v Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewers[v.ID] = v
}

func (s *Store) viewer(id string) (Viewer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viewers[id]
	return v, ok
}

func (s *Store) user(id string) (likeco.UserMin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creators[id]
	if !ok {
		return likeco.UserMin{}, errUnknownCreator
	}
	u := likeco.UserMin{
		User:                   c.ID,
		DisplayName:            c.DisplayName,
		Avatar:                 c.Avatar,
		IsPreRegCivicLiker:     c.PreRegCivicLiker,
		IsCivicLikerTrial:      c.CivicLikerTrial,
		IsSubscribedCivicLiker: c.SubscribedCivicLiker,
	}
	if !c.CivicLikerSince.IsZero() {
		u.CivicLikerSince = c.CivicLikerSince.UnixMilli()
	}
	return u, nil
}

func (s *Store) hasCreator(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.creators[id]
	return ok
}

func (s *Store) selfCount(liker, creator, referrer string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[likeKey{liker, creator, referrer}]
}

func (s *Store) total(creator, referrer string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for k, c := range s.likes {
		if k.creator == creator && k.referrer == referrer {
			n += c
		}
	}
	return n
}

// like adds count likes, capped per (liker, creator, referrer).
func (s *Store) like(liker, creator, referrer string, count int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creators[creator]; !ok {
		return 0, errUnknownCreator
	}
	k := likeKey{liker, creator, referrer}
	s.likes[k] = min(maxLike, s.likes[k]+count)
	return s.likes[k], nil
}

func (s *Store) superLikeStatus(liker string) likeco.SuperLikeStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.viewers[liker]
	st := likeco.SuperLikeStatus{IsSuperLiker: v.IsSuperLiker}
	now := s.now()
	history := s.superLikes[liker]
	if n := len(history); n > 0 {
		next := history[n-1].at.Add(s.cooldown)
		if now.Before(next) {
			st.NextSuperLikeTs = next.UnixMilli()
			st.Cooldown = float64(next.Sub(now)) / float64(s.cooldown)
		}
		for i := len(history) - 1; i >= 0 && now.Sub(history[i].at) < s.cooldown; i-- {
			st.LastSuperLikeInfos = append(st.LastSuperLikeInfos, likeco.SuperLikeInfo{
				SuperLikeID: history[i].id,
				Timestamp:   history[i].at.UnixMilli(),
			})
		}
	}
	st.CanSuperLike = st.IsSuperLiker && st.Cooldown == 0
	return st
}

func (s *Store) superLike(liker, creator, referrer string) (string, error) {
	st := s.superLikeStatus(liker)
	if !st.IsSuperLiker {
		return "", errNotSuperLiker
	}
	if !st.CanSuperLike {
		return "", errCooldown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creators[creator]; !ok {
		return "", errUnknownCreator
	}
	id := uuid.NewString()
	s.superLikes[liker] = append(s.superLikes[liker], superLike{id: id, creator: creator, referrer: referrer, at: s.now()})
	return id, nil
}

func (s *Store) bookmark(liker, url string) (bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookmarks[liker] {
		if b.url == url {
			return b, true
		}
	}
	return bookmark{}, false
}

func (s *Store) addBookmark(liker, url string) bookmark {
	if b, ok := s.bookmark(liker, url); ok {
		return b
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := bookmark{id: uuid.NewString(), url: url}
	s.bookmarks[liker] = append(s.bookmarks[liker], b)
	return b
}

func (s *Store) deleteBookmark(liker, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.bookmarks[liker]
	for i, b := range list {
		if b.id == id {
			s.bookmarks[liker] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return errNoBookmark
}

func (s *Store) isFollowing(liker, creator string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.follows[liker][creator]
}

func (s *Store) follow(liker, creator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creators[creator]; !ok {
		return errUnknownCreator
	}
	if s.follows[liker] == nil {
		s.follows[liker] = make(map[string]bool)
	}
	s.follows[liker][creator] = true
	return nil
}

func (s *Store) supporting(liker, creator string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewers[liker].Supporting[creator]
}

// Creators lists the seeded creator ids in order.
func (s *Store) Creators() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.creators))
	for id := range s.creators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
