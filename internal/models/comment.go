package models

// Comment represents a top-level comment on a video
type Comment struct {
	ID        int     `json:"id"`
	VideoID   string  `json:"video_id"`
	UserID    uint    `json:"user_id"`
	ChannelID string  `json:"channel_id,omitempty"` // author's channel, for linking
	Text      string  `json:"text"`                 // sanitised HTML
	Likes     int     `json:"likes"`
	Dislikes  int     `json:"dislikes"`
	Replies   []Reply `json:"replies"`
}

// Reply is a single-depth answer to a Comment. Replies carry no reactions.
type Reply struct {
	ID        int    `json:"id"`
	UserID    uint   `json:"user_id"`
	ChannelID string `json:"channel_id,omitempty"`
	Text      string `json:"text"`
}

// CreateCommentRequest defines the form body for posting a comment
type CreateCommentRequest struct {
	VideoID string `form:"video_id"`
	Comment string `form:"comment"`
}

// CreateReplyRequest defines the form body for posting a reply
type CreateReplyRequest struct {
	ParentID int    `form:"parent_id"`
	Text     string `form:"text"`
}

// VoteCommentRequest defines the form body of a comment reaction
type VoteCommentRequest struct {
	CommentID int    `form:"comment_id" validate:"required"`
	Action    string `form:"action" validate:"required"`
}
