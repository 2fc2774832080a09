package domain

import (
	"github.com/shopspring/decimal"
)

// DisputeStatus is the lifecycle state of a disputable transaction:
// normal -> disputed -> {resolved | charged_back}. Resolved transactions
// are not re-disputable; charged_back is terminal.
type DisputeStatus string

const (
	StatusNormal      DisputeStatus = "normal"
	StatusDisputed    DisputeStatus = "disputed"
	StatusResolved    DisputeStatus = "resolved"
	StatusChargedBack DisputeStatus = "charged_back"
)

// Entry is the ledger record of a disputable (deposit) transaction.
// TxID, ClientID and Amount are fixed at creation; only Status changes.
type Entry struct {
	TxID     uint32
	ClientID uint16
	Amount   decimal.Decimal
	Status   DisputeStatus
}
