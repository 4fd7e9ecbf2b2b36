package models

import (
	"github.com/shopspring/decimal"
)

// Program is a downloadable software or game listing.
type Program struct {
	BaseModel

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"default:'General'"`
	Version     string `json:"version"`

	// DownloadURL is the internally hosted path under /uploads;
	// ExternalDownloadURL points at an outside host and wins when set.
	DownloadURL         string `json:"download_url"`
	ExternalDownloadURL string `json:"external_download_url"`

	IconURL  string `json:"icon_url"`
	ImageURL string `json:"image_url"`
	FileSize string `json:"file_size"`

	Downloads int `json:"downloads" gorm:"default:0"`

	Price  decimal.Decimal `json:"price" gorm:"type:decimal(10,2);default:0"`
	IsPaid bool            `json:"is_paid" gorm:"default:false"`
}

// TableName specifies the table name
func (Program) TableName() string {
	return "programs"
}

// DownloadLocator returns the locator handed to the client once the item
// may be downloaded. An external URL takes precedence over the hosted path.
func (p *Program) DownloadLocator() string {
	if p.ExternalDownloadURL != "" {
		return p.ExternalDownloadURL
	}
	return p.DownloadURL
}
