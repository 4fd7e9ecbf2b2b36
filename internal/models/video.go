package models

// Video is a tutorial video listing, optionally linked to a program.
type Video struct {
	BaseModel

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	VideoURL         string `json:"video_url"`
	ExternalVideoURL string `json:"external_video_url"`
	ThumbnailURL     string `json:"thumbnail_url"`

	ProgramID *uint `json:"program_id" gorm:"index"`

	Views int `json:"views" gorm:"default:0"`
}

// TableName specifies the table name
func (Video) TableName() string {
	return "videos"
}
