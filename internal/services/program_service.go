package services

import (
	"errors"
	"fmt"

	"khmerdownload-api/internal/models"

	"gorm.io/gorm"
)

// ProgramService provides catalog operations for program listings
type ProgramService struct {
	db *gorm.DB
}

// NewProgramService creates a new program service
func NewProgramService(db *gorm.DB) *ProgramService {
	return &ProgramService{db: db}
}

// GetAll returns all program listings
func (s *ProgramService) GetAll() ([]models.Program, error) {
	var programs []models.Program
	if err := s.db.Order("created_at DESC").Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

// GetByID gets a program by ID
func (s *ProgramService) GetByID(id uint) (*models.Program, error) {
	var program models.Program
	err := s.db.First(&program, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: program %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &program, nil
}

// Create creates a new program listing
func (s *ProgramService) Create(program *models.Program) error {
	if err := s.db.Create(program).Error; err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

// Update applies field updates to an existing program
func (s *ProgramService) Update(id uint, updates map[string]interface{}) (*models.Program, error) {
	result := s.db.Model(&models.Program{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update program: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: program %d", ErrNotFound, id)
	}
	return s.GetByID(id)
}

// Delete soft deletes a program
func (s *ProgramService) Delete(id uint) error {
	result := s.db.Delete(&models.Program{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete program: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: program %d", ErrNotFound, id)
	}
	return nil
}

// IncrementDownloads bumps the download counter
func (s *ProgramService) IncrementDownloads(id uint) error {
	result := s.db.Model(&models.Program{}).Where("id = ?", id).
		Update("downloads", gorm.Expr("downloads + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: program %d", ErrNotFound, id)
	}
	return nil
}
