// Package main provides the entry point for livewatch.
//
// livewatch records a single Douyin live room: it holds the push
// socket open, aggregates chat, gift, member, like and viewer events
// in memory, and persists the running state as JSON snapshot
// documents on a fixed cadence.
//
// Usage:
//
//	livewatch record LIVE_ID [flags]
//	livewatch sessions --live-id LIVE_ID -o json
//	livewatch version
//
// @design DS-0501
// @design DS-0601
package main
