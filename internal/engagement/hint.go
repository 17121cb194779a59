package engagement

import (
	"context"
	"fmt"
)

// Hint is the line of guidance shown under the button.
type Hint int

const (
	HintNone Hint = iota
	HintSignIn
	HintPleaseLike
	HintSuperLikedTryLater
	HintSuperLikedFollowersWillSee
	HintCanSuperLike
	HintToSuperLike
	HintCanSuperLikeOwn
	HintToSuperLikeOwn
)

var hintText = map[Hint]string{
	HintSignIn:                     "Sign in to like and support this creator",
	HintPleaseLike:                 "Click to like, up to 5 times",
	HintSuperLikedTryLater:         "Super Liked. Please try again later",
	HintSuperLikedFollowersWillSee: "Super Liked! Your followers will see this",
	HintCanSuperLike:               "Click again to Super Like and share with your followers",
	HintToSuperLike:                "Become a Civic Liker to Super Like",
	HintCanSuperLikeOwn:            "Super Like your own work to share it with your followers",
	HintToSuperLikeOwn:             "Become a Civic Liker to Super Like your own work",
}

func (h Hint) String() string {
	return hintText[h]
}

// Hint picks the guidance for the current state.
func (s State) Hint() Hint {
	if !s.Session.IsLoggedIn {
		return HintSignIn
	}
	if !s.Session.IsCreator && s.Like.Count < MaxLike {
		return HintPleaseLike
	}
	if s.SuperLike.CooldownProgress != 0 {
		switch {
		case s.SuperLike.HasClickCooldown:
			return HintSuperLikedTryLater
		case s.SuperLike.HasSuperLiked:
			return HintSuperLikedFollowersWillSee
		default:
			return HintNone
		}
	}
	switch {
	case s.Session.IsCreator && s.SuperLike.CanSuperLike:
		return HintCanSuperLikeOwn
	case s.Session.IsCreator:
		return HintToSuperLikeOwn
	case s.SuperLike.CanSuperLike:
		return HintCanSuperLike
	default:
		return HintToSuperLike
	}
}

// LikeButtonLabel is "Super Like now" once the likes are used up and a super
// like is available, and the pluralised total otherwise.
func (s State) LikeButtonLabel() string {
	if s.IsMaxLike() && s.CanSuperLikeNow() {
		return "Super Like now"
	}
	if s.Like.Total == 1 {
		return "1 Like"
	}
	return fmt.Sprintf("%d Likes", s.Like.Total)
}

// CTALabel is the civic liker call to action.
func (s State) CTALabel() string {
	if s.IsSupportingCreator() {
		return "Supporting"
	}
	return "Become a Civic Liker"
}

// CTAPreset names the button style of the call to action.
func (s State) CTAPreset() string {
	if s.IsSupportingCreator() {
		return "special"
	}
	return "default"
}

// SignUpTriggered reports the sign up flow to the tracker.
func (w *Widget) SignUpTriggered(ctx context.Context) {
	w.tracker.Event(ctx, "LikeButtonFlow", "triggerSignUpIn", "triggerSignUpIn", 1)
}
