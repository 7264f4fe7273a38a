package http

import (
	"github.com/gin-gonic/gin"

	"segment-service/ddd/application/app"
	"segment-service/ddd/application/cqe"
	"segment-service/pkg/errno"
	"segment-service/pkg/middleware"
	"segment-service/pkg/restapi"
)

// SegmentController handles the segment pipeline endpoints.
type SegmentController struct {
	segmentApp app.SegmentApp
}

// NewSegmentController builds the controller on an injected app.
func NewSegmentController(segmentApp app.SegmentApp) *SegmentController {
	return &SegmentController{segmentApp: segmentApp}
}

// SubmitBatch handles POST /api/v1/videos/:video_uuid/segments.
func (c *SegmentController) SubmitBatch(ctx *gin.Context) {
	req := &cqe.SubmitSegmentBatchReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	if err := ctx.ShouldBindJSON(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	req.UserUUID = middleware.UserUUID(ctx)

	result, err := c.segmentApp.SubmitBatch(ctx.Request.Context(), req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// List handles GET /api/v1/videos/:video_uuid/segments, the poll read.
func (c *SegmentController) List(ctx *gin.Context) {
	req := &cqe.ListSegmentsReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	req.UserUUID = middleware.UserUUID(ctx)

	result, err := c.segmentApp.ListByVideo(ctx.Request.Context(), req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// RequestComposite handles POST /api/v1/segments/:segment_uuid/composite.
func (c *SegmentController) RequestComposite(ctx *gin.Context) {
	req := &cqe.RequestCompositeReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	if err := ctx.ShouldBindJSON(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	req.UserUUID = middleware.UserUUID(ctx)

	result, err := c.segmentApp.RequestComposite(ctx.Request.Context(), req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// ListBackgrounds handles GET /api/v1/backgrounds.
func (c *SegmentController) ListBackgrounds(ctx *gin.Context) {
	result, err := c.segmentApp.ListBackgrounds(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}
