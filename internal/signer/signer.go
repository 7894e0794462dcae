// Package signer computes the signature required to open a push
// connection to a live room.
package signer

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// Signer produces a signature over connection URL parameters.
type Signer interface {
	// Sign returns the signature for the given query parameters.
	Sign(params url.Values) (string, error)
}

// canonicalParams lists the query parameters included in the signature
// digest, in the order the remote endpoint expects.
var canonicalParams = []string{
	"live_id",
	"aid",
	"version_code",
	"webcast_sdk_version",
	"room_id",
	"sub_room_id",
	"sub_channel_id",
	"did_rule",
	"user_unique_id",
	"device_platform",
	"device_type",
	"ac",
	"identity",
}

// Digest computes the canonical MD5 digest over the signed parameters.
//
// Parameters are serialized as comma-joined k=v pairs in canonical
// order. Absent parameters contribute an empty value.
func Digest(params url.Values) string {
	pairs := make([]string, 0, len(canonicalParams))
	for _, name := range canonicalParams {
		pairs = append(pairs, name+"="+params.Get(name))
	}

	sum := md5.Sum([]byte(strings.Join(pairs, ",")))
	return hex.EncodeToString(sum[:])
}
