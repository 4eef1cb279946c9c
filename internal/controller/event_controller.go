package controller

import (
	"gamification_backend/internal/service"
	"gamification_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// CreateEvent godoc
// @Summary 创建活动
// @Description 创建作业或考试活动，题目通过绑定活动获得开放窗口
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.EventRequest true "活动信息"
// @Success 201 {object} util.Response{data=model.Event} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req service.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.CreateEvent(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, event)
}

// UpdateEvent godoc
// @Summary 更新活动
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id   path int true "活动ID"
// @Param   body body service.EventRequest true "活动信息"
// @Success 200 {object} util.Response{data=model.Event} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var req service.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.UpdateEvent(id, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, event)
}

// ListEvents godoc
// @Summary 课程下的活动列表
// @Tags 活动
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int false "课程ID"
// @Success 200 {object} util.Response{data=[]model.Event} "成功"
// @Router /api/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.DefaultQuery("courseId", "0"))

	events, err := c.EventService.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, events)
}
