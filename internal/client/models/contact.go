package models

// Contact is one roster entry as stored locally after a contact sync.
type Contact struct {
	ID        string `json:"objectId"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
}
