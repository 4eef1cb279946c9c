package repository

import (
	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// TokenValueRepository 处理代币系数配置的数据库操作
type TokenValueRepository struct {
	DB *gorm.DB
}

func NewTokenValueRepository(db *gorm.DB) *TokenValueRepository {
	return &TokenValueRepository{DB: db}
}

func (r *TokenValueRepository) Create(tv *model.TokenValue) error {
	return r.DB.Create(tv).Error
}

func (r *TokenValueRepository) Update(tv *model.TokenValue) error {
	return r.DB.Save(tv).Error
}

func (r *TokenValueRepository) FindByCategoryAndDifficulty(categoryID uint, difficulty model.Difficulty) (*model.TokenValue, error) {
	var tv model.TokenValue
	err := r.DB.Where("category_id = ? AND difficulty = ?", categoryID, difficulty).First(&tv).Error
	if err != nil {
		return nil, err
	}
	return &tv, nil
}

func (r *TokenValueRepository) FindByCategory(categoryID uint) ([]model.TokenValue, error) {
	var values []model.TokenValue
	err := r.DB.Where("category_id = ?", categoryID).Find(&values).Error
	return values, err
}
