package repository

import (
	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository 处理题目的数据库操作
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Category").Preload("Category.Parent").Preload("Event").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Model(question).Updates(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// FindByCategoryWithPagination 按分类分页查找题目
func (r *QuestionRepository) FindByCategoryWithPagination(categoryID uint, page, limit int) ([]model.Question, int, error) {
	var questions []model.Question
	var total int64

	err := r.DB.Model(&model.Question{}).Where("category_id = ?", categoryID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err = r.DB.Preload("Event").Where("category_id = ?", categoryID).
		Offset(offset).Limit(limit).Find(&questions).Error

	return questions, int(total), err
}

func (r *QuestionRepository) FindSamples() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("is_sample = ?", true).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByEvent(eventID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Event").Where("event_id = ?", eventID).Find(&questions).Error
	return questions, err
}

// SolvedAndTried 题目被解出的人数与至少提交过一次的人数
func (r *QuestionRepository) SolvedAndTried(questionID uint) (solved int64, tried int64, err error) {
	err = r.DB.Model(&model.UserQuestionJunction{}).
		Where("question_id = ? AND is_solved = ?", questionID, true).
		Count(&solved).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.DB.Model(&model.UserQuestionJunction{}).
		Where("question_id = ?", questionID).
		Where("id IN (?)", r.DB.Model(&model.Submission{}).Select("junction_id")).
		Count(&tried).Error
	return solved, tried, err
}
