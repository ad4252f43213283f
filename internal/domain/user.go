package domain

// User is a Mesto profile. Users are created server-side and never deleted
// by the gallery.
type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
}

// ProfileUpdate carries the editable text fields of a profile.
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,min=2,max=40"`
	About string `json:"about" validate:"required,min=2,max=200"`
}

// AvatarUpdate carries a new avatar image URL.
type AvatarUpdate struct {
	Avatar string `json:"avatar" validate:"required,url"`
}
