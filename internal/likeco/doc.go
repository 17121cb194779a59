// Package likeco provides an HTTP client for the LikeCoin like button API.
//
// # Overview
//
// The like button reads a creator's public profile and the viewer's
// engagement status, then issues likes, super likes, bookmarks and follows.
// This package owns the HTTP side of that conversation: URL construction,
// JSON encoding, authentication headers and error classification.
//
// # Architecture
//
//   - client.go: the Service interface, the Client implementation and request handling
//   - types.go: data structures mirroring the API schema
//
// # Client Usage
//
//	client, err := likeco.NewClient("https://api.like.co", likeco.Options{
//		AuthToken: cfg.AuthToken,
//		Jar:       jar,
//	})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	profile, err := client.GetUserMinByID(ctx, "alice")
//
// # API Endpoints
//
//   - GET    /users/id/{id}/min: public creator profile
//   - GET    /like/likebutton/{id}/self/status: viewer session for a creator
//   - GET    /like/likebutton/{id}/self: the viewer's like count
//   - GET    /like/likebutton/{id}/total: total like count
//   - POST   /like/likebutton/{id}/{count}: record likes
//   - GET    /like/share/self: super like eligibility and cooldown
//   - POST   /like/share/{id}: super like
//   - GET    /users/bookmarks, POST /users/bookmarks, DELETE /users/bookmarks/{id}
//   - GET    /users/follow/users/{id}, POST /users/follow/users/{id}
//   - GET    /civic/support/users/{id}: supporting quantity
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: liker/0.1
//   - Send Authorization: Bearer <token> when a token is configured
//   - Carry cookies through the optional http.CookieJar
//   - Encode mutation bodies as JSON Metadata
//
// # Error Handling
//
//   - Network errors: "execute request: ..."
//   - HTTP errors: *StatusError ("api /users/id/x/min returned status 404");
//     IsNotFound reports 404s
//   - Deserialization errors: "decode response: ..."
//
// The client never retries. Retry and rollback policy belongs to the
// engagement package.
//
// # Thread Safety
//
// Client is safe for concurrent use; the status sync issues several requests
// at once through the same Client.
package likeco
