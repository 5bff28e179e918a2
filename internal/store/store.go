package store

import (
	"github.com/dwarvesf/justthetip/internal/store/auditlog"
	"github.com/dwarvesf/justthetip/internal/store/multisigproposal"
	"github.com/dwarvesf/justthetip/internal/store/multisigwallet"
	"github.com/dwarvesf/justthetip/internal/store/userbalance"
	"github.com/dwarvesf/justthetip/internal/store/withdrawalrequest"
)

type Store struct {
	WithdrawalRequest withdrawalrequest.IStore
	MultiSigWallet    multisigwallet.IStore
	MultiSigProposal  multisigproposal.IStore
	AuditLog          auditlog.IStore
	UserBalance       userbalance.IStore
}

func New() *Store {
	return &Store{
		WithdrawalRequest: withdrawalrequest.New(),
		MultiSigWallet:    multisigwallet.New(),
		MultiSigProposal:  multisigproposal.New(),
		AuditLog:          auditlog.New(),
		UserBalance:       userbalance.New(),
	}
}
