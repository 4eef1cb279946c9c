package controller

import (
	"errors"

	"gamification_backend/internal/service"
	"gamification_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	AuthService     *service.AuthService
	StorageService  *service.StorageService
}

func NewQuestionController(questionService *service.QuestionService, authService *service.AuthService, storageService *service.StorageService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		AuthService:     authService,
		StorageService:  storageService,
	}
}

// CreateQuestion godoc
// @Summary 创建题目
// @Description 创建题目，按变体校验载荷；提交配额与难度未给定时使用默认值
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuestionCreateRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateQuestion(user.ID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 更新题目，载荷校验与默认值策略同创建
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id   path int true "题目ID"
// @Param   body body service.QuestionCreateRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req service.QuestionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateQuestion(id, req)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, question)
}

// GetQuestion godoc
// @Summary 获取学习者视角的题目
// @Description 按个人种子实例化题面与选项，并打点查看时间
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
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

	view, err := c.QuestionService.GetRenderedQuestion(user, id)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// OpenTutorial godoc
// @Summary 打开题目教程
// @Description 返回按个人种子渲染的教程文本；打开后该题不再允许提交
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id}/tutorial [post]
func (c *QuestionController) OpenTutorial(ctx *gin.Context) {
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

	tutorial, err := c.QuestionService.OpenTutorial(user, id)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"tutorial": tutorial})
}

// ListByCategory godoc
// @Summary 分类下的题目列表
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id    path  int true  "分类ID"
// @Param   page  query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/categories/{id}/questions [get]
func (c *QuestionController) ListByCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	page := util.StringToInt(ctx.DefaultQuery("page", "1"), 1)
	limit := util.StringToInt(ctx.DefaultQuery("limit", "20"), 20)

	questions, total, err := c.QuestionService.ListByCategory(id, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: int64(total),
		Page:  page,
		Limit: limit,
	})
}

// GetProgress godoc
// @Summary 当前用户的题目进度
// @Description 全部交互过的题目及完成状态，按最近活动排序
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ProgressEntry} "成功"
// @Router /api/profile/progress [get]
func (c *QuestionController) GetProgress(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.QuestionService.ListProgress(user.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// UploadAttachment godoc
// @Summary 上传题目附件
// @Description 上传代码题的输入文件，评测派发时按文件名读取
// @Tags 题目
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "附件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/questions/attachments [post]
func (c *QuestionController) UploadAttachment(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.StorageService.Provider.Upload(
		ctx.Request.Context(),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"name": fileHeader.Filename, "url": url})
}

// ListSamples godoc
// @Summary 示例题列表
// @Description 标记为示例的题目，无需登录即可浏览
// @Tags 题目
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /api/questions/samples [get]
func (c *QuestionController) ListSamples(ctx *gin.Context) {
	questions, err := c.QuestionService.ListSamples()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// ListByEvent godoc
// @Summary 活动下的题目列表
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "活动ID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /api/events/{id}/questions [get]
func (c *QuestionController) ListByEvent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	questions, err := c.QuestionService.ListByEvent(id)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, questions)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionService.DeleteQuestion(id); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetSuccessRate godoc
// @Summary 题目解出率
// @Description 解出人数占尝试过人数的比例
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/questions/{id}/success-rate [get]
func (c *QuestionController) GetSuccessRate(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	rate, err := c.QuestionService.SuccessRate(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"successRate": rate})
}
