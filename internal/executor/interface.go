package executor

import (
	"context"

	"github.com/dwarvesf/justthetip/internal/model"
)

// IExecutor submits a cleared transfer to the signing service and returns the chain signature.
type IExecutor interface {
	Execute(ctx context.Context, instruction model.TransferInstruction) (string, error)
	Ping(ctx context.Context) error
}
