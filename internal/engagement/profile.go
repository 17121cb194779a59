package engagement

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/five82/liker/internal/likeco"
)

// Target identifies which creator the button is for and where it is embedded.
type Target struct {
	CreatorID string
	// Amount is an optional display amount; values <= 0 mean "none".
	Amount int
	// Referrer is the attribution URL forwarded with every action.
	Referrer    string
	ButtonType  string
	Integration string
	// DocumentReferrer is the page that opened the button, when known.
	DocumentReferrer string
}

var mediumReferrer = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9-]+\.)*medium\.com(/|$)`)

// NormalizeTarget trims the target and infers the "medium" button type from a
// medium.com referrer when no type was given.
func NormalizeTarget(t Target) Target {
	t.CreatorID = strings.TrimSpace(t.CreatorID)
	t.Referrer = strings.TrimSpace(t.Referrer)
	t.ButtonType = strings.TrimSpace(t.ButtonType)
	t.Integration = strings.TrimSpace(t.Integration)
	t.DocumentReferrer = strings.TrimSpace(t.DocumentReferrer)
	if t.Amount < 0 {
		t.Amount = 0
	}
	if t.ButtonType == "" && mediumReferrer.MatchString(t.Referrer) {
		t.ButtonType = "medium"
	}
	return t
}

// ErrProfileNotFound is matched by errors.Is for any profile load failure.
var ErrProfileNotFound = errors.New("profile not found")

// NotFoundError is the terminal "creator not found" condition. The host
// treats it like an HTTP 404.
type NotFoundError struct {
	CreatorID string
	Cause     error
}

func (e *NotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("creator %q not found", e.CreatorID)
	}
	return fmt.Sprintf("creator %q not found: %v", e.CreatorID, e.Cause)
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrProfileNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrProfileNotFound }

// StatusCode is the HTTP status the host should report.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// LoadProfile fetches the creator's public profile once. Any failure is
// reported as *NotFoundError rather than a partial profile; there is no retry.
func LoadProfile(ctx context.Context, svc likeco.Service, target Target) (Profile, error) {
	target = NormalizeTarget(target)
	if target.CreatorID == "" {
		return Profile{}, &NotFoundError{Cause: errors.New("empty creator id")}
	}
	user, err := svc.GetUserMinByID(ctx, target.CreatorID)
	if err != nil {
		return Profile{}, &NotFoundError{CreatorID: target.CreatorID, Cause: err}
	}

	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = target.CreatorID
	}
	return Profile{
		ID:                     target.CreatorID,
		DisplayName:            name,
		AvatarURL:              user.Avatar,
		IsPreRegCivicLiker:     user.IsPreRegCivicLiker,
		IsCivicLikerTrial:      user.IsCivicLikerTrial,
		IsSubscribedCivicLiker: user.IsSubscribedCivicLiker,
		CivicLikerSince:        user.CivicLikerSinceTime(),
		Amount:                 target.Amount,
	}, nil
}
