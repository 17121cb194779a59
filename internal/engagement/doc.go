// Package engagement holds the like button's state and the rules that change it.
//
// # Overview
//
// A Widget is created for one creator once the profile has been loaded with
// LoadProfile. Mount checks cookie support and runs the first Sync; after that
// the host calls the mutators in response to the viewer:
//
//	profile, err := engagement.LoadProfile(ctx, client, target)
//	if err != nil {
//		return err // *NotFoundError, reported as 404
//	}
//	w, err := engagement.New(profile, engagement.Options{Service: client, Target: target})
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	_ = w.Mount(ctx)
//	w.Like()
//
// # State Machines
//
// Like, super like, bookmark and follow each own one slice of State behind
// their own mutex, so requests for different machines may overlap freely.
//
//   - Like: clicks raise Count (capped at MaxLike) and re-arm a 500ms quiet
//     period. When it expires the unsent delta is posted once and added to
//     Total. Total is not reduced if the post fails.
//   - Super like: flags are set before the request; a failure restores
//     HasSuperLiked and CooldownProgress but leaves JustSuperLiked.
//   - Bookmark: flips before the request and flips back on failure. A toggle
//     while one is pending returns ErrBusy.
//   - Follow: Followed is only set after the backend accepts. There is no
//     unfollow.
//
// # Sync
//
// Sync runs the viewer status, self count and total count reads together and
// waits for all of them. For a signed-in viewer it then fetches super like
// status, bookmark, follow and (for civic liker version 2) support quantity.
// These lookups are best effort. A super like seen once is never cleared by
// a later sync that reports an empty history.
//
// Responses are applied as they arrive. A slow sync can overwrite a newer
// optimistic change; requests carry no sequence numbers.
package engagement
