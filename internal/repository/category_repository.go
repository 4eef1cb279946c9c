package repository

import (
	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository 处理题目分类的数据库操作
type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Create(category *model.QuestionCategory) error {
	return r.DB.Create(category).Error
}

func (r *CategoryRepository) FindByID(id uint) (*model.QuestionCategory, error) {
	var category model.QuestionCategory
	err := r.DB.Preload("Parent").Preload("NextCategories").First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll() ([]model.QuestionCategory, error) {
	var categories []model.QuestionCategory
	err := r.DB.Preload("Parent").Preload("NextCategories").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindChildren(parentID uint) ([]model.QuestionCategory, error) {
	var categories []model.QuestionCategory
	err := r.DB.Where("parent_id = ?", parentID).Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(category *model.QuestionCategory) error {
	return r.DB.Save(category).Error
}

func (r *CategoryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.QuestionCategory{}, id).Error
}

// ReplaceNextCategories 重建学习路径 DAG 中的后继边
func (r *CategoryRepository) ReplaceNextCategories(category *model.QuestionCategory, next []model.QuestionCategory) error {
	return r.DB.Model(category).Association("NextCategories").Replace(next)
}

// CountQuestions 分类下的题目数；根分类统计全部子分类
func (r *CategoryRepository) CountQuestions(categoryID uint, isRoot bool) (int64, error) {
	var count int64
	query := r.DB.Model(&model.Question{})
	if isRoot {
		query = query.Where("category_id = ? OR category_id IN (?)", categoryID,
			r.DB.Model(&model.QuestionCategory{}).Select("id").Where("parent_id = ?", categoryID))
	} else {
		query = query.Where("category_id = ?", categoryID)
	}
	err := query.Count(&count).Error
	return count, err
}

// SolvedAndAttempted 分类（含直接子分类）下解出的关联数与至少提交过一次的关联数
func (r *CategoryRepository) SolvedAndAttempted(categoryID uint) (solved int64, attempted int64, err error) {
	categoryFilter := r.DB.Model(&model.Question{}).Select("id").
		Where("category_id = ? OR category_id IN (?)", categoryID,
			r.DB.Model(&model.QuestionCategory{}).Select("id").Where("parent_id = ?", categoryID))

	err = r.DB.Model(&model.UserQuestionJunction{}).
		Where("question_id IN (?) AND is_solved = ?", categoryFilter, true).
		Count(&solved).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.DB.Model(&model.UserQuestionJunction{}).
		Where("question_id IN (?)", categoryFilter).
		Where("id IN (?)", r.DB.Model(&model.Submission{}).Select("junction_id")).
		Count(&attempted).Error
	return solved, attempted, err
}
