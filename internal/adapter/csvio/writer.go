package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/quayside/payengine/internal/domain"
)

// WriteAll renders the final account snapshot as CSV with the header
// client,available,held,total,locked. Decimal fields keep their exact
// scale, at most four fractional digits by construction.
func WriteAll(w io.Writer, accounts []*domain.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, account := range accounts {
		row := []string{
			strconv.FormatUint(uint64(account.ClientID), 10),
			account.Available.String(),
			account.Held.String(),
			account.Total().String(),
			strconv.FormatBool(account.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
