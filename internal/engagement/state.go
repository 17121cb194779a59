package engagement

import "time"

// MaxLike is the most likes one viewer can give a (creator, referrer) pair.
const MaxLike = 5

// SupportTierV2 is the civicLikerVersion of the per-creator support model.
const SupportTierV2 = 2

// Profile is the creator's public profile. It never changes after load.
type Profile struct {
	ID                     string
	DisplayName            string
	AvatarURL              string
	IsPreRegCivicLiker     bool
	IsCivicLikerTrial      bool
	IsSubscribedCivicLiker bool
	CivicLikerSince        time.Time
	// Amount is the optional display amount carried in the button route.
	Amount int
}

// ViewerSession describes who is looking at the button. Each status sync
// replaces it wholesale.
type ViewerSession struct {
	Liker             string
	IsLoggedIn        bool
	IsCreator         bool
	IsSubscribed      bool
	IsTrialSubscriber bool
	CivicLikerVersion int
}

// LikeState tracks ordinary likes.
type LikeState struct {
	// Count is the viewer's like count, clamped to [0, MaxLike].
	Count int
	// Sent is how much of Count has already been flushed to the backend.
	Sent int
	// Total is the like count across all viewers.
	Total int
}

// Unsent is the delta the next flush carries.
func (l LikeState) Unsent() int {
	return l.Count - l.Sent
}

// SuperLikeState tracks super like eligibility and cooldown.
type SuperLikeState struct {
	IsSuperLiker bool
	CanSuperLike bool
	// HasSuperLiked is sticky: a later sync reporting no history keeps it true.
	HasSuperLiked  bool
	JustSuperLiked bool
	// CooldownProgress is 0 when ready; anything above 0 means waiting.
	CooldownProgress float64
	NextSuperLikeAt  time.Time
	HasClickCooldown bool
	// ParentSuperLikeID is the referral chain id read from the cookie store.
	ParentSuperLikeID string
}

// BookmarkState tracks the viewer's bookmark of the referrer.
type BookmarkState struct {
	Bookmarked bool
	ID         string
	Loading    bool
}

// FollowState tracks whether the viewer follows the creator. ToggleFollow
// only ever sets Followed; unfollowing is not offered.
type FollowState struct {
	Followed bool
	Loading  bool
}

// SupportState holds the viewer's support quantity under the v2 tier model.
type SupportState struct {
	Quantity int
}

// State is a point-in-time copy of everything the button renders.
type State struct {
	Profile   Profile
	Session   ViewerSession
	Like      LikeState
	SuperLike SuperLikeState
	Bookmark  BookmarkState
	Follow    FollowState
	Support   SupportState

	SessionID       string
	CookieSupported bool
	// Synced is set once the first status sync has finished, whatever its outcome.
	Synced bool
}

// IsMaxLike reports whether the viewer has used all of their likes.
func (s State) IsMaxLike() bool {
	return s.Like.Count >= MaxLike
}

// IsCreatorCivicLiker reports whether the creator holds a civic liker tier.
func (s State) IsCreatorCivicLiker() bool {
	return s.Profile.IsCivicLikerTrial || s.Profile.IsSubscribedCivicLiker
}

// IsSupportingCreator reports whether the viewer supports the creator.
func (s State) IsSupportingCreator() bool {
	return s.Support.Quantity > 0
}

// CanSuperLikeNow reports whether a super like would be accepted right away.
func (s State) CanSuperLikeNow() bool {
	return s.SuperLike.CanSuperLike && s.SuperLike.CooldownProgress <= 0
}

func clampLike(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxLike {
		return MaxLike
	}
	return n
}
