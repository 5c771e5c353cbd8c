package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// document number prefixes
const (
	PrefixInvoice      = "INV-"
	PrefixCreditNote   = "CN-"
	PrefixDueSchedule  = "DS-"
	PrefixOpenItem     = "OI-"
	PrefixProcess      = "PRC-"
	PrefixSubscription = "SUB-"
	PrefixCustomer     = "CUST-"
)

func random8() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// GenerateNumber generates a unique document number with the given prefix
func GenerateNumber(prefix string) string {
	return prefix + random8()
}

// GenerateBatchID generates the identifier that correlates every artifact of
// one billing run, e.g. "BATCH-20250201-3F7A91C2"
func GenerateBatchID(billingDate time.Time) string {
	return "BATCH-" + billingDate.Format("20060102") + "-" + random8()
}
