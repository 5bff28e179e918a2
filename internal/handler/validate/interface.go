package validate

import "github.com/gin-gonic/gin"

type IHandler interface {
	ValidateTransaction(c *gin.Context)
}
