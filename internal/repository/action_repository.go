package repository

import (
	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// ActionRepository 处理审计流水的数据库操作，流水只增不改
type ActionRepository struct {
	DB *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{DB: db}
}

func (r *ActionRepository) Create(action *model.Action) error {
	return r.DB.Create(action).Error
}

func (r *ActionRepository) FindByUserWithPagination(userID uint, page, limit int) ([]model.Action, int, error) {
	var actions []model.Action
	var total int64

	err := r.DB.Model(&model.Action{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err = r.DB.Where("user_id = ?", userID).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&actions).Error

	return actions, int(total), err
}
