package models

import (
	"time"
)

// Feedback statuses
const (
	FeedbackPending  = "pending"
	FeedbackResolved = "resolved"
)

// Feedback is a public wall post. A nil ParentID marks a top-level post;
// replies carry the id of the post they answer.
type Feedback struct {
	BaseModel

	Name    string `json:"name" gorm:"not null"`
	Contact string `json:"contact,omitempty" gorm:"not null"`
	Message string `json:"message" gorm:"type:text;not null"`

	AdminReply string     `json:"admin_reply"`
	ReplyDate  *time.Time `json:"reply_date"`

	ParentID *uint `json:"parent_id" gorm:"index"`

	Likes int `json:"likes" gorm:"default:0"`
	Loves int `json:"loves" gorm:"default:0"`

	Status string `json:"status" gorm:"size:10;default:'pending'"`
}

// TableName specifies the table name
func (Feedback) TableName() string {
	return "feedbacks"
}
