package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gamification_backend/internal/model"
	"gamification_backend/internal/repository"
	"gamification_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

const categoryStatsTTL = 5 * time.Minute

type CategoryService struct {
	CategoryRepo   *repository.CategoryRepository
	TokenValueRepo *repository.TokenValueRepository
	Redis          *redis.Client
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, tokenValueRepo *repository.TokenValueRepository, rdb *redis.Client) *CategoryService {
	return &CategoryService{
		CategoryRepo:   categoryRepo,
		TokenValueRepo: tokenValueRepo,
		Redis:          rdb,
	}
}

type CategoryRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	ParentID        *uint  `json:"parentId"`
	NextCategoryIDs []uint `json:"nextCategoryIds"`
}

func (s *CategoryService) CreateCategory(req CategoryRequest) (*model.QuestionCategory, error) {
	category := &model.QuestionCategory{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}

	// 分类建立后补齐各难度的默认代币系数
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyNormal, model.DifficultyHard} {
		tv := &model.TokenValue{
			CategoryID: category.ID,
			Difficulty: d,
			Value:      model.DefaultTokenValue(d),
		}
		if err := s.TokenValueRepo.Create(tv); err != nil {
			return nil, err
		}
	}

	if len(req.NextCategoryIDs) > 0 {
		if err := s.replaceNext(category, req.NextCategoryIDs); err != nil {
			return nil, err
		}
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(id uint, req CategoryRequest) (*model.QuestionCategory, error) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrCategoryNotFound
	}

	// parent 环无法在结构上杜绝，至少拒绝直接自引用
	if req.ParentID != nil && *req.ParentID == id {
		return nil, util.ErrCategorySelfParent
	}

	category.Name = req.Name
	category.Description = req.Description
	category.ParentID = req.ParentID
	if err := s.CategoryRepo.Update(category); err != nil {
		return nil, err
	}

	if req.NextCategoryIDs != nil {
		if err := s.replaceNext(category, req.NextCategoryIDs); err != nil {
			return nil, err
		}
	}
	return category, nil
}

func (s *CategoryService) replaceNext(category *model.QuestionCategory, ids []uint) error {
	next := make([]model.QuestionCategory, 0, len(ids))
	for _, id := range ids {
		c, err := s.CategoryRepo.FindByID(id)
		if err != nil {
			return util.ErrCategoryNotFound
		}
		next = append(next, *c)
	}
	return s.CategoryRepo.ReplaceNextCategories(category, next)
}

func (s *CategoryService) ListCategories() ([]model.QuestionCategory, error) {
	return s.CategoryRepo.FindAll()
}

// ListChildren 分类树的直接子节点
func (s *CategoryService) ListChildren(id uint) ([]model.QuestionCategory, error) {
	if _, err := s.CategoryRepo.FindByID(id); err != nil {
		return nil, util.ErrCategoryNotFound
	}
	return s.CategoryRepo.FindChildren(id)
}

// DeleteCategory 删除空分类，仍有子分类时拒绝
func (s *CategoryService) DeleteCategory(id uint) error {
	if _, err := s.CategoryRepo.FindByID(id); err != nil {
		return util.ErrCategoryNotFound
	}
	children, err := s.CategoryRepo.FindChildren(id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return errors.New("category has child categories")
	}
	return s.CategoryRepo.Delete(id)
}

// TokenValueRequest 数值缺省时按难度取默认值
type TokenValueRequest struct {
	CategoryID uint             `json:"categoryId" binding:"required"`
	Difficulty model.Difficulty `json:"difficulty" binding:"required"`
	Value      *float64         `json:"value"`
}

func (s *CategoryService) SetTokenValue(req TokenValueRequest) (*model.TokenValue, error) {
	value := model.DefaultTokenValue(req.Difficulty)
	if req.Value != nil {
		value = *req.Value
	}

	existing, err := s.TokenValueRepo.FindByCategoryAndDifficulty(req.CategoryID, req.Difficulty)
	if err == nil {
		existing.Value = value
		if err := s.TokenValueRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	tv := &model.TokenValue{
		CategoryID: req.CategoryID,
		Difficulty: req.Difficulty,
		Value:      value,
	}
	if err := s.TokenValueRepo.Create(tv); err != nil {
		return nil, err
	}
	return tv, nil
}

func (s *CategoryService) ListTokenValues(categoryID uint) ([]model.TokenValue, error) {
	return s.TokenValueRepo.FindByCategory(categoryID)
}

// CategoryStats 面向分类页的聚合统计
type CategoryStats struct {
	QuestionCount  int64   `json:"questionCount"`
	AverageSuccess float64 `json:"averageSuccess"`
}

// Stats 分类统计，Redis 缓存削峰
func (s *CategoryService) Stats(ctx context.Context, categoryID uint) (*CategoryStats, error) {
	cacheKey := fmt.Sprintf("category:stats:%d", categoryID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats CategoryStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	category, err := s.CategoryRepo.FindByID(categoryID)
	if err != nil {
		return nil, util.ErrCategoryNotFound
	}

	count, err := s.CategoryRepo.CountQuestions(categoryID, category.ParentID == nil)
	if err != nil {
		return nil, err
	}

	solved, attempted, err := s.CategoryRepo.SolvedAndAttempted(categoryID)
	if err != nil {
		return nil, err
	}

	stats := &CategoryStats{QuestionCount: count}
	if attempted > 0 {
		stats.AverageSuccess = 100 * float64(solved) / float64(attempted)
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.Redis.Set(ctx, cacheKey, raw, categoryStatsTTL)
		}
	}
	return stats, nil
}
