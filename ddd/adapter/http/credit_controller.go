package http

import (
	"github.com/gin-gonic/gin"

	"segment-service/ddd/application/app"
	"segment-service/ddd/application/cqe"
	"segment-service/pkg/errno"
	"segment-service/pkg/middleware"
	"segment-service/pkg/restapi"
)

// CreditController exposes the credit ledger.
type CreditController struct {
	creditApp app.CreditApp
}

// NewCreditController builds the controller on an injected app.
func NewCreditController(creditApp app.CreditApp) *CreditController {
	return &CreditController{creditApp: creditApp}
}

// Balance handles GET /api/v1/credits.
func (c *CreditController) Balance(ctx *gin.Context) {
	result, err := c.creditApp.Balance(ctx.Request.Context(), middleware.UserUUID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// Transactions handles GET /api/v1/credits/transactions.
func (c *CreditController) Transactions(ctx *gin.Context) {
	result, err := c.creditApp.Transactions(ctx.Request.Context(), middleware.UserUUID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// Grant handles POST /api/v1/credits/grant.
func (c *CreditController) Grant(ctx *gin.Context) {
	req := &cqe.GrantCreditsReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	result, err := c.creditApp.Grant(ctx.Request.Context(), req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}
