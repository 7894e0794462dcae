// Package connection maintains the push socket to a live room.
package connection

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultEndpoint is the push socket endpoint of the remote platform.
const DefaultEndpoint = "wss://webcast5-ws-web-hl.douyin.com/webcast/im/push/v2/"

// pushDeviceID is the fixed device identity presented on the push
// handshake.
const pushDeviceID = "7319483754668557238"

// buildURL composes and signs the push connection URL.
//
// The handshake pins live_id to 1; the room identity rides in
// room_id. Timestamps use the wall clock at call time, so each
// connect attempt gets a fresh cursor.
func (m *Manager) buildURL() (string, error) {
	now := time.Now().UnixMilli()

	params := url.Values{}
	params.Set("aid", "6383")
	params.Set("live_id", "1")
	params.Set("device_platform", "web")
	params.Set("room_id", m.cfg.RoomID)
	params.Set("support_wrds", "1")
	params.Set("version_code", "180800")
	params.Set("webcast_sdk_version", "1.0.14")
	params.Set("update_version_code", "1.0.14")
	params.Set("compress", "gzip")
	params.Set("internal_ext", fmt.Sprintf(
		"internal_src:dim|wss_push_room_id:%s|wss_push_did:%s|fetch_time:%d|seq:1|wss_info:0-%d-0-0",
		m.cfg.RoomID, m.cfg.DeviceID, now, now))
	params.Set("cursor", fmt.Sprintf("d-1_u-1_h-1_t-%d", now))
	params.Set("host", "https://live.douyin.com")
	params.Set("im_path", "/webcast/im/fetch/")
	params.Set("user_unique_id", "")
	params.Set("identity", "audience")
	params.Set("need_persist_msg_count", "15")
	params.Set("heartbeatDuration", "0")

	signature, err := m.cfg.Signer.Sign(params)
	if err != nil {
		return "", err
	}
	params.Set("signature", signature)

	return m.cfg.Endpoint + "?" + params.Encode(), nil
}
