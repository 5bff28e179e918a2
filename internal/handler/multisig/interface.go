package multisig

import "github.com/gin-gonic/gin"

type IHandler interface {
	CreateMultiSig(c *gin.Context)
	CreateProposal(c *gin.Context)
	ApproveProposal(c *gin.Context)
	RejectProposal(c *gin.Context)
	GetPendingProposals(c *gin.Context)
	RequiresMultiSig(c *gin.Context)
}
