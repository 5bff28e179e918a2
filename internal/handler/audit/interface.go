package audit

import "github.com/gin-gonic/gin"

type IHandler interface {
	ListAuditLogs(c *gin.Context)
}
