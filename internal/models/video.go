package models

import "time"

// Video represents an uploaded video stored in videos.json
type Video struct {
	ID          string    `json:"id"`
	UserID      uint      `json:"user_id"`
	ChannelID   string    `json:"channel_id"`
	Filename    string    `json:"filename"` // media key of the video file
	Cover       string    `json:"cover"`    // media key of the cover image
	Title       string    `json:"title"`
	Description string    `json:"description"` // sanitised HTML
	Likes       int       `json:"likes"`
	Dislikes    int       `json:"dislikes"`
	Views       int       `json:"views"`
	UploadDate  time.Time `json:"upload_date"`
}

// Score is the ranking key of the home feed
func (v *Video) Score() int {
	return v.Likes - v.Dislikes
}

// UploadVideoRequest defines the text fields of the multipart upload form
type UploadVideoRequest struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"max=5000"`
}

// LikeVideoRequest defines the form body of a video reaction
type LikeVideoRequest struct {
	VideoID string `form:"video_id" validate:"required"`
	Action  string `form:"action" validate:"required"`
}
