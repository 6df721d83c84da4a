package model

// ServeSocketRequest carries the handshake identity of a websocket client.
// Identity travels on the upgrade URL's query string, never in a frame.
type ServeSocketRequest struct {
	UserID string `form:"userId"`
	OrgID  string `form:"orgId"`
}
