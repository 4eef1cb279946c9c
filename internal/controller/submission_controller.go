package controller

import (
	"errors"

	"gamification_backend/internal/service"
	"gamification_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
	AuthService       *service.AuthService
}

func NewSubmissionController(submissionService *service.SubmissionService, authService *service.AuthService) *SubmissionController {
	return &SubmissionController{
		SubmissionService: submissionService,
		AuthService:       authService,
	}
}

// Submit godoc
// @Summary 提交作答
// @Description 创建一次作答。选择题当场判分；代码题派发外部评测后返回评测中状态
// @Tags 提交
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubmitRequest true "作答内容"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "不允许提交"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.SubmissionService.Submit(user, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSubmissionQuota):
			util.Error(ctx, 403, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"id":     submission.ID,
		"status": submission.Status(),
		"grade":  submission.Grade,
	})
}

// Refresh godoc
// @Summary 刷新评测结果
// @Description 重新拉取外部评测结果并推进状态机；已定格的提交原样返回
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/submissions/{id}/refresh [post]
func (c *SubmissionController) Refresh(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	submission, err := c.SubmissionService.Refresh(user, id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":        submission.ID,
		"status":    submission.Status(),
		"grade":     submission.Grade,
		"finalized": submission.Finalized,
		"stdout":    submission.DecodedStdout(),
		"stderr":    submission.DecodedStderr(),
	})
}

// GetSubmission godoc
// @Summary 获取单次提交
// @Description 读取提交详情；未定格的代码提交会顺带拉取最新评测结果
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	// 读取即刷新：Refresh 对已定格的提交是安全的空操作
	c.Refresh(ctx)
}

// ListForQuestion godoc
// @Summary 当前用户在某题下的提交历史
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=[]model.Submission} "成功"
// @Router /api/questions/{id}/submissions [get]
func (c *SubmissionController) ListForQuestion(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	submissions, err := c.SubmissionService.ListForQuestion(user, id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}
