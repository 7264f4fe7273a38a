package http

import (
	"github.com/gin-gonic/gin"

	"segment-service/ddd/application/app"
	"segment-service/ddd/application/cqe"
	"segment-service/pkg/errno"
	"segment-service/pkg/middleware"
	"segment-service/pkg/restapi"
)

// VideoController handles source video registration and lookup.
type VideoController struct {
	videoApp app.VideoApp
}

// NewVideoController builds the controller on an injected app.
func NewVideoController(videoApp app.VideoApp) *VideoController {
	return &VideoController{videoApp: videoApp}
}

// Register handles POST /api/v1/videos.
func (c *VideoController) Register(ctx *gin.Context) {
	req := &cqe.RegisterSourceVideoReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	req.UserUUID = middleware.UserUUID(ctx)

	result, err := c.videoApp.Register(ctx.Request.Context(), req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// Get handles GET /api/v1/videos/:video_uuid.
func (c *VideoController) Get(ctx *gin.Context) {
	req := &cqe.GetSourceVideoReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	req.UserUUID = middleware.UserUUID(ctx)

	result, err := c.videoApp.Get(ctx.Request.Context(), req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}
