package repository

import (
	"errors"
	"time"

	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// JunctionRepository 处理用户-题目关联记录的数据库操作
type JunctionRepository struct {
	DB *gorm.DB
}

func NewJunctionRepository(db *gorm.DB) *JunctionRepository {
	return &JunctionRepository{DB: db}
}

// FindOrCreate 首次交互时惰性创建关联并分配一次性随机种子
func (r *JunctionRepository) FindOrCreate(userID, questionID uint) (*model.UserQuestionJunction, error) {
	var junction model.UserQuestionJunction
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&junction).Error
	if err == nil {
		return &junction, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	junction = model.UserQuestionJunction{
		UserID:     userID,
		QuestionID: questionID,
		RandomSeed: model.NewRandomSeed(),
	}
	if err := r.DB.Create(&junction).Error; err != nil {
		return nil, err
	}
	return &junction, nil
}

func (r *JunctionRepository) FindByID(id uint) (*model.UserQuestionJunction, error) {
	var junction model.UserQuestionJunction
	err := r.DB.First(&junction, id).Error
	if err != nil {
		return nil, err
	}
	return &junction, nil
}

func (r *JunctionRepository) Update(junction *model.UserQuestionJunction) error {
	return r.DB.Save(junction).Error
}

func (r *JunctionRepository) MarkViewed(junction *model.UserQuestionJunction) error {
	now := time.Now()
	junction.LastViewed = &now
	return r.DB.Model(junction).Update("last_viewed", now).Error
}

func (r *JunctionRepository) FindByUser(userID uint) ([]model.UserQuestionJunction, error) {
	var junctions []model.UserQuestionJunction
	err := r.DB.Preload("Question").Where("user_id = ?", userID).
		Order("updated_at DESC").Find(&junctions).Error
	return junctions, err
}
