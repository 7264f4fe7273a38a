package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controllers groups the HTTP controllers for route registration.
type Controllers struct {
	Segment *SegmentController
	Video   *VideoController
	Credit  *CreditController
}

// RegisterRoutes mounts the API surface on the engine.
func RegisterRoutes(engine *gin.Engine, c Controllers) {
	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/videos", c.Video.Register)
		v1.GET("/videos/:video_uuid", c.Video.Get)

		v1.POST("/videos/:video_uuid/segments", c.Segment.SubmitBatch)
		v1.GET("/videos/:video_uuid/segments", c.Segment.List)
		v1.POST("/segments/:segment_uuid/composite", c.Segment.RequestComposite)
		v1.GET("/backgrounds", c.Segment.ListBackgrounds)

		v1.GET("/credits", c.Credit.Balance)
		v1.GET("/credits/transactions", c.Credit.Transactions)
		v1.POST("/credits/grant", c.Credit.Grant)
	}
}
