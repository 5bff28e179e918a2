package ratelimit

import "time"

const (
	CommandTip            = "tip"
	CommandAirdrop        = "airdrop"
	CommandWithdraw       = "withdraw"
	CommandRegisterWallet = "register_wallet"
	CommandBalance        = "balance"
	CommandMultiSig       = "multisig"
)

func DefaultRules() map[string]Rule {
	return map[string]Rule{
		CommandTip:            {UserLimit: 10, GlobalLimit: 1000, Window: time.Minute},
		CommandAirdrop:        {UserLimit: 2, GlobalLimit: 50, Window: 5 * time.Minute},
		CommandWithdraw:       {UserLimit: 3, GlobalLimit: 100, Window: time.Hour},
		CommandRegisterWallet: {UserLimit: 3, GlobalLimit: 200, Window: time.Hour},
		CommandBalance:        {UserLimit: 20, GlobalLimit: 2000, Window: time.Minute},
		CommandMultiSig:       {UserLimit: 10, GlobalLimit: 500, Window: 10 * time.Minute},
	}
}
