package services

import (
	"errors"
	"fmt"

	"khmerdownload-api/internal/models"

	"gorm.io/gorm"
)

// VideoService provides catalog operations for tutorial videos
type VideoService struct {
	db *gorm.DB
}

// NewVideoService creates a new video service
func NewVideoService(db *gorm.DB) *VideoService {
	return &VideoService{db: db}
}

// GetAll returns all videos
func (s *VideoService) GetAll() ([]models.Video, error) {
	var videos []models.Video
	if err := s.db.Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// GetByID gets a video by ID
func (s *VideoService) GetByID(id uint) (*models.Video, error) {
	var video models.Video
	err := s.db.First(&video, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: video %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &video, nil
}

// Create creates a new video
func (s *VideoService) Create(video *models.Video) error {
	if err := s.db.Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// Update applies field updates to an existing video
func (s *VideoService) Update(id uint, updates map[string]interface{}) (*models.Video, error) {
	result := s.db.Model(&models.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update video: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: video %d", ErrNotFound, id)
	}
	return s.GetByID(id)
}

// Delete soft deletes a video
func (s *VideoService) Delete(id uint) error {
	result := s.db.Delete(&models.Video{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete video: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: video %d", ErrNotFound, id)
	}
	return nil
}

// IncrementViews bumps the view counter
func (s *VideoService) IncrementViews(id uint) error {
	result := s.db.Model(&models.Video{}).Where("id = ?", id).
		Update("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: video %d", ErrNotFound, id)
	}
	return nil
}
