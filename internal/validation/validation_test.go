package validation

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/justthetip/internal/consts"
)

const (
	solAddress = "So11111111111111111111111111111111111111112"
	ethAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	btcLegacy  = "1A1zP1eP5QGefi2DMPTfTL5SMLWHcdG1cM"
	btcBech32  = "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"
	sender     = "123456789012345678"
	recipient  = "876543210987654321"
)

var _ = Describe("ValidateAmount", func() {
	maxAmount := decimal.NewFromInt(1000)

	DescribeTable("rejects",
		func(raw string) {
			r := ValidateAmount(raw, maxAmount)
			Expect(r.Valid).To(BeFalse())
			Expect(r.Error).NotTo(BeEmpty())
		},
		Entry("nine decimals", "0.123456789"),
		Entry("negative", "-1"),
		Entry("zero", "0"),
		Entry("non numeric", "abc"),
		Entry("empty", "  "),
		Entry("infinity", "Infinity"),
		Entry("NaN", "NaN"),
		Entry("exponent", "1e3"),
		Entry("above maxAmount", "1000.01"),
	)

	It("parses a plain decimal", func() {
		r := ValidateAmount(" 1.5 ", maxAmount)
		Expect(r.Valid).To(BeTrue())
		Expect(r.Sanitized.Equal(decimal.RequireFromString("1.5"))).To(BeTrue())
	})

	It("accepts eight decimals and ignores trailing zeros", func() {
		Expect(ValidateAmount("0.12345678", maxAmount).Valid).To(BeTrue())
		Expect(ValidateAmount("1.500000000", maxAmount).Valid).To(BeTrue())
	})

	It("accepts the maxAmount itself", func() {
		Expect(ValidateAmount("1000", maxAmount).Valid).To(BeTrue())
	})

	It("has no upper bound when maxAmount is zero", func() {
		Expect(ValidateAmount("99999999", decimal.Zero).Valid).To(BeTrue())
	})
})

var _ = Describe("ValidateAddress", func() {
	DescribeTable("accepts",
		func(raw, chain string) {
			r := ValidateAddress(raw, chain)
			Expect(r.Error).To(BeEmpty())
			Expect(r.Valid).To(BeTrue())
			Expect(r.Sanitized).To(Equal(strings.TrimSpace(raw)))
		},
		Entry("solana", solAddress, consts.ChainSolana),
		Entry("solana with whitespace", "  "+solAddress+"\n", consts.ChainSolana),
		Entry("ethereum", ethAddress, consts.ChainEthereum),
		Entry("bitcoin legacy", btcLegacy, consts.ChainBitcoin),
		Entry("bitcoin bech32", btcBech32, consts.ChainBitcoin),
	)

	DescribeTable("rejects",
		func(raw, chain string) {
			Expect(ValidateAddress(raw, chain).Valid).To(BeFalse())
		},
		Entry("empty", "", consts.ChainSolana),
		Entry("script payload", "<script>alert(1)</script>", consts.ChainSolana),
		Entry("javascript uri", "javascript:alert(1)", consts.ChainEthereum),
		Entry("solana with forbidden characters", "0OIl1111111111111111111111111111111", consts.ChainSolana),
		Entry("eth without prefix", strings.TrimPrefix(ethAddress, "0x"), consts.ChainEthereum),
		Entry("eth too short", "0x742d35Cc6634C0532925a3b844Bc454e4438f4", consts.ChainEthereum),
		Entry("btc bad checksum", "1A1zP1eP5QGefi2DMPTfTL5SMLWHcdG1cN", consts.ChainBitcoin),
		Entry("solana address on bitcoin", solAddress, consts.ChainBitcoin),
	)

	It("reports unsupported chains", func() {
		r := ValidateAddress(solAddress, "DOGE")
		Expect(r.Valid).To(BeFalse())
		Expect(r.Error).To(ContainSubstring("unsupported chain"))
	})
})

var _ = Describe("ValidateUserID", func() {
	It("accepts snowflakes", func() {
		Expect(ValidateUserID("12345678901234567").Valid).To(BeTrue())
		Expect(ValidateUserID("1234567890123456789").Valid).To(BeTrue())
	})

	It("rejects everything else", func() {
		Expect(ValidateUserID("").Valid).To(BeFalse())
		Expect(ValidateUserID("1234567890123456").Valid).To(BeFalse())
		Expect(ValidateUserID("12345678901234567890").Valid).To(BeFalse())
		Expect(ValidateUserID("12345678901234567a").Valid).To(BeFalse())
		Expect(ValidateUserID("-12345678901234567").Valid).To(BeFalse())
	})
})

var _ = Describe("ValidateUserInput", func() {
	It("trims and bounds length", func() {
		r := ValidateUserInput("  thanks for the help  ", 50)
		Expect(r.Valid).To(BeTrue())
		Expect(r.Sanitized).To(Equal("thanks for the help"))

		Expect(ValidateUserInput(strings.Repeat("a", 51), 50).Valid).To(BeFalse())
	})

	DescribeTable("rejects suspicious content",
		func(raw string) {
			Expect(ValidateUserInput(raw, 500).Valid).To(BeFalse())
		},
		Entry("script tag", "<SCRIPT src=x>"),
		Entry("event handler", `<img onerror="x">`),
		Entry("html data uri", "data:text/html;base64,xx"),
		Entry("iframe", "<iframe src=x>"),
		Entry("eval", "eval (1)"),
		Entry("vbscript", "vbscript:msgbox"),
		Entry("css expression", "expression(alert(1))"),
		Entry("object", "<object data=x>"),
		Entry("embed", "<embed src=x>"),
	)
})

var _ = Describe("ValidateTransaction", func() {
	It("sanitizes a valid tip", func() {
		r := ValidateTransaction(TransactionParams{
			SenderID:    sender,
			RecipientID: recipient,
			Amount:      "0.5",
			Currency:    consts.CurrencySOL,
			Memo:        " gg ",
		})
		Expect(r.Valid).To(BeTrue())
		Expect(r.Errors).To(BeEmpty())
		Expect(r.Sanitized.Memo).To(Equal("gg"))
		Expect(r.Sanitized.Amount.String()).To(Equal("0.5"))
	})

	It("validates the destination against the currency chain", func() {
		r := ValidateTransaction(TransactionParams{
			SenderID:  sender,
			ToAddress: solAddress,
			Amount:    "2",
			Currency:  consts.CurrencyUSDC,
		})
		Expect(r.Valid).To(BeTrue())
		Expect(r.Sanitized.ToAddress).To(Equal(solAddress))
	})

	It("aggregates every violation", func() {
		r := ValidateTransaction(TransactionParams{
			SenderID:    sender,
			RecipientID: sender,
			Amount:      "-1",
			Currency:    "DOGE",
			Memo:        "<script>",
		})
		Expect(r.Valid).To(BeFalse())
		Expect(r.Sanitized).To(BeNil())
		Expect(r.Errors).To(HaveLen(4))
		Expect(r.Errors).To(ContainElement("cannot send to yourself"))
		Expect(r.Errors).To(ContainElement("unsupported currency: DOGE"))
	})

	It("requires a recipient or a destination address", func() {
		r := ValidateTransaction(TransactionParams{
			SenderID: sender,
			Amount:   "1",
			Currency: consts.CurrencySOL,
		})
		Expect(r.Valid).To(BeFalse())
		Expect(r.Errors).To(ConsistOf("recipient or to_address is required"))
	})

	It("rejects a recipient together with a destination address", func() {
		r := ValidateTransaction(TransactionParams{
			SenderID:    sender,
			RecipientID: recipient,
			ToAddress:   solAddress,
			Amount:      "1",
			Currency:    consts.CurrencySOL,
		})
		Expect(r.Valid).To(BeFalse())
		Expect(r.Errors).To(ConsistOf("recipient and to_address cannot both be set"))
	})

	It("bounds precision by the currency's smallest unit", func() {
		r := ValidateTransaction(TransactionParams{
			SenderID:    sender,
			RecipientID: recipient,
			Amount:      "1.1234567",
			Currency:    consts.CurrencyUSDC,
		})
		Expect(r.Valid).To(BeFalse())
		Expect(r.Errors).To(ConsistOf("amount has more than 6 decimal places for USDC"))

		r = ValidateTransaction(TransactionParams{
			SenderID:    sender,
			RecipientID: recipient,
			Amount:      "1.1234567",
			Currency:    consts.CurrencySOL,
		})
		Expect(r.Valid).To(BeTrue())
	})
})

var _ = Describe("FitsDecimals", func() {
	It("ignores trailing zeros", func() {
		Expect(FitsDecimals(decimal.RequireFromString("1.1234560"), 6)).To(BeTrue())
		Expect(FitsDecimals(decimal.RequireFromString("1.1234567"), 6)).To(BeFalse())
		Expect(FitsDecimals(decimal.RequireFromString("3"), 0)).To(BeTrue())
	})
})
