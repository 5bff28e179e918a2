package validation

import (
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/dwarvesf/justthetip/internal/consts"
)

var errInvalidHex = errors.New("not a hex address")

var addressPatterns = map[string]*regexp.Regexp{
	consts.ChainSolana:   regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`),
	consts.ChainEthereum: regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`),
	consts.ChainBitcoin:  regexp.MustCompile(`^(bc1|[13])[a-zA-HJ-NP-Z0-9]{25,62}$`),
}

// ValidateAddress checks raw against the address format of chain and decodes it
// with the chain's own library.
func ValidateAddress(raw, chain string) Result[string] {
	address := strings.TrimSpace(raw)
	if address == "" {
		return fail[string]("address is required")
	}
	if containsSuspicious(address) {
		return fail[string]("address contains forbidden content")
	}

	pattern, found := addressPatterns[chain]
	if !found {
		return fail[string]("unsupported chain: %s", chain)
	}
	if !pattern.MatchString(address) {
		return fail[string]("invalid %s address format", chain)
	}
	if err := decodeAddress(address, chain); err != nil {
		return fail[string]("invalid %s address: %v", chain, err)
	}

	return ok(address)
}

func decodeAddress(address, chain string) error {
	switch chain {
	case consts.ChainSolana:
		_, err := solana.PublicKeyFromBase58(address)
		return err
	case consts.ChainEthereum:
		if !common.IsHexAddress(address) {
			return errInvalidHex
		}
		return nil
	case consts.ChainBitcoin:
		_, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
		return err
	}
	return nil
}
