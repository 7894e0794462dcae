// Package room resolves live room identity against the remote
// platform's web endpoints.
//
// This package implements the pre-connection HTTP exchanges:
//
//   - resolver.go: live ID to room ID resolution from the room page
//   - token.go: ttwid auth token harvesting and msToken generation
//
// Both exchanges impersonate the web client. Resolution is best
// effort: when the page cannot be fetched or parsed, the live ID
// itself is used as the room ID and the room is treated as offline.
//
// @req RQ-0201
// @design DS-0302
package room
