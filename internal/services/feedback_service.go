package services

import (
	"errors"
	"fmt"
	"time"

	"khmerdownload-api/internal/models"

	"gorm.io/gorm"
)

// FeedbackService provides the public feedback wall operations
type FeedbackService struct {
	db *gorm.DB
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// Create adds a feedback post, or a reply when parentID is set
func (s *FeedbackService) Create(name, contact, message string, parentID *uint) (*models.Feedback, error) {
	if contact == "" {
		contact = "N/A"
	}
	feedback := &models.Feedback{
		Name:     name,
		Contact:  contact,
		Message:  message,
		ParentID: parentID,
		Status:   models.FeedbackPending,
	}
	if err := s.db.Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return feedback, nil
}

// GetAll returns the whole wall, oldest first so reply chains read in order.
// The frontend handles the nesting.
func (s *FeedbackService) GetAll() ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	if err := s.db.Order("created_at ASC").Find(&feedbacks).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedbacks, nil
}

// React bumps the like or love counter
func (s *FeedbackService) React(id uint, reaction string) (*models.Feedback, error) {
	var column string
	switch reaction {
	case "like":
		column = "likes"
	case "love":
		column = "loves"
	default:
		return nil, fmt.Errorf("unknown reaction %q", reaction)
	}

	result := s.db.Model(&models.Feedback{}).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: feedback %d", ErrNotFound, id)
	}
	return s.getByID(id)
}

// UpdateMessage edits a post's message
func (s *FeedbackService) UpdateMessage(id uint, message string) (*models.Feedback, error) {
	result := s.db.Model(&models.Feedback{}).Where("id = ?", id).Update("message", message)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: feedback %d", ErrNotFound, id)
	}
	return s.getByID(id)
}

// Reply records the official admin answer and resolves the post
func (s *FeedbackService) Reply(id uint, reply string) (*models.Feedback, error) {
	now := time.Now()
	result := s.db.Model(&models.Feedback{}).Where("id = ?", id).Updates(map[string]interface{}{
		"admin_reply": reply,
		"reply_date":  &now,
		"status":      models.FeedbackResolved,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: feedback %d", ErrNotFound, id)
	}
	return s.getByID(id)
}

// Delete removes a post
func (s *FeedbackService) Delete(id uint) error {
	result := s.db.Delete(&models.Feedback{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: feedback %d", ErrNotFound, id)
	}
	return nil
}

func (s *FeedbackService) getByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.db.First(&feedback, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: feedback %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &feedback, nil
}
