package controller

import (
	"errors"

	"gamification_backend/internal/service"
	"gamification_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// CreateCategory godoc
// @Summary 创建题目分类
// @Description 创建分类并补齐各难度的默认代币系数
// @Tags 分类
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CategoryRequest true "分类信息"
// @Success 201 {object} util.Response{data=model.QuestionCategory} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CategoryService.CreateCategory(req)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, category)
}

// UpdateCategory godoc
// @Summary 更新题目分类
// @Description 更新分类信息，拒绝将分类设为自身的父节点
// @Tags 分类
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id   path int true "分类ID"
// @Param   body body service.CategoryRequest true "分类信息"
// @Success 200 {object} util.Response{data=model.QuestionCategory} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{id} [put]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CategoryService.UpdateCategory(id, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCategoryNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCategorySelfParent):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, category)
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 分类
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuestionCategory} "成功"
// @Router /api/categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.CategoryService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// ListChildren godoc
// @Summary 分类树的直接子节点
// @Tags 分类
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response{data=[]model.QuestionCategory} "成功"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{id}/children [get]
func (c *CategoryController) ListChildren(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	children, err := c.CategoryService.ListChildren(id)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, children)
}

// DeleteCategory godoc
// @Summary 删除分类
// @Description 删除分类，仍有子分类时拒绝
// @Tags 分类
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "分类下仍有子分类"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	if err := c.CategoryService.DeleteCategory(id); err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// GetCategoryStats godoc
// @Summary 分类统计
// @Description 题目数量与平均解出率，带缓存
// @Tags 分类
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response{data=service.CategoryStats} "成功"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{id}/stats [get]
func (c *CategoryController) GetCategoryStats(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	stats, err := c.CategoryService.Stats(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, stats)
}

// SetTokenValue godoc
// @Summary 配置代币系数
// @Description 设置 (分类, 难度) 的代币系数，数值缺省时按难度取默认值
// @Tags 分类
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.TokenValueRequest true "代币系数"
// @Success 200 {object} util.Response{data=model.TokenValue} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/token-values [put]
func (c *CategoryController) SetTokenValue(ctx *gin.Context) {
	var req service.TokenValueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tv, err := c.CategoryService.SetTokenValue(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, tv)
}

// ListTokenValues godoc
// @Summary 分类的代币系数列表
// @Tags 分类
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response{data=[]model.TokenValue} "成功"
// @Router /api/categories/{id}/token-values [get]
func (c *CategoryController) ListTokenValues(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	values, err := c.CategoryService.ListTokenValues(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, values)
}
