package repository

import (
	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// SubmissionRepository 处理作答记录的数据库操作
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Junction").First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) Update(submission *model.Submission) error {
	return r.DB.Save(submission).Error
}

func (r *SubmissionRepository) FindByJunction(junctionID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("junction_id = ?", junctionID).Order("submission_time").Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) CountByJunction(junctionID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("junction_id = ?", junctionID).Count(&count).Error
	return int(count), err
}
