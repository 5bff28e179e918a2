package withdrawal

import "github.com/gin-gonic/gin"

type IHandler interface {
	RequestWithdrawal(c *gin.Context)
	GetPendingWithdrawals(c *gin.Context)
	ApproveWithdrawal(c *gin.Context)
	RejectWithdrawal(c *gin.Context)
	GetUserWithdrawals(c *gin.Context)
}
