package likeco

import "time"

// UserMin mirrors the payload returned by /users/id/{id}/min.
type UserMin struct {
	User                   string `json:"user"`
	DisplayName            string `json:"displayName"`
	Avatar                 string `json:"avatar"`
	IsPreRegCivicLiker     bool   `json:"isPreRegCivicLiker"`
	IsCivicLikerTrial      bool   `json:"isCivicLikerTrial"`
	IsSubscribedCivicLiker bool   `json:"isSubscribedCivicLiker"`
	CivicLikerSince        int64  `json:"civicLikerSince"`
}

// CivicLikerSinceTime returns CivicLikerSince (milliseconds) as time.Time.
func (u UserMin) CivicLikerSinceTime() time.Time {
	if u.CivicLikerSince <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(u.CivicLikerSince)
}

// MyStatus mirrors /like/likebutton/{id}/self/status.
type MyStatus struct {
	Liker             string `json:"liker"`
	IsSubscribed      bool   `json:"isSubscribed"`
	IsTrialSubscriber bool   `json:"isTrialSubscriber"`
	// ServerCookieSupported is nil when the server did not report it.
	ServerCookieSupported *bool `json:"serverCookieSupported,omitempty"`
	CivicLikerVersion     int   `json:"civicLikerVersion"`
}

// SelfCount mirrors /like/likebutton/{id}/self.
type SelfCount struct {
	Count int    `json:"count"`
	Liker string `json:"liker"`
}

// TotalCount mirrors /like/likebutton/{id}/total.
type TotalCount struct {
	Total int `json:"total"`
}

// SuperLikeInfo describes one past super like.
type SuperLikeInfo struct {
	SuperLikeID string `json:"superLikeID"`
	Timestamp   int64  `json:"ts"`
}

// SuperLikeStatus mirrors /like/share/self.
type SuperLikeStatus struct {
	IsSuperLiker       bool            `json:"isSuperLiker"`
	CanSuperLike       bool            `json:"canSuperLike"`
	LastSuperLikeInfos []SuperLikeInfo `json:"lastSuperLikeInfos"`
	NextSuperLikeTs    int64           `json:"nextSuperLikeTs"`
	Cooldown           float64         `json:"cooldown"`
}

// Bookmark is the bookmark record returned by /users/bookmarks.
type Bookmark struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// FollowStatus mirrors /users/follow/users/{id}.
type FollowStatus struct {
	IsFollowed bool `json:"isFollowed"`
}

// SupportingUser mirrors /civic/support/users/{id}.
type SupportingUser struct {
	Quantity int `json:"quantity"`
}

// Metadata is attached to every mutating call and to the viewer status read.
type Metadata struct {
	DocumentReferrer string `json:"documentReferrer"`
	SessionID        string `json:"sessionID"`
	Type             string `json:"type"`
	Integration      string `json:"integration"`
	Referrer         string `json:"referrer"`
	IsCookieSupport  bool   `json:"isCookieSupport"`
}

// SuperLikeRequest is the body of a super like call.
type SuperLikeRequest struct {
	Metadata
	TZ                string `json:"tz"`
	ParentSuperLikeID string `json:"parentSuperLikeID,omitempty"`
}
