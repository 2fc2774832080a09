// Package csvio implements the CSV input and output boundary. The
// reader preserves input order exactly; any row it cannot parse is a
// structural error that rejects the whole batch.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quayside/payengine/internal/domain"
)

// ReadAll parses a batch of records from CSV input with the header
// type,client,tx,amount. The amount column may be empty or omitted
// for dispute/resolve/chargeback rows. The first unparseable row
// aborts the read with an error wrapping domain.ErrMalformedRecord.
func ReadAll(r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimSpace(header[0]), "type") {
		return nil, fmt.Errorf("%w: expected header type,client,tx,amount", domain.ErrMalformedRecord)
	}

	var records []domain.Record
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrMalformedRecord, row, err)
		}

		rec, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(fields []string) (domain.Record, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return domain.Record{}, fmt.Errorf("%w: expected 3 or 4 fields, got %d", domain.ErrMalformedRecord, len(fields))
	}

	kind, err := domain.ParseKind(fields[0])
	if err != nil {
		return domain.Record{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: invalid client id %q", domain.ErrMalformedRecord, fields[1])
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: invalid tx id %q", domain.ErrMalformedRecord, fields[2])
	}

	rec := domain.Record{
		Kind:     kind,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	if len(fields) == 4 {
		if raw := strings.TrimSpace(fields[3]); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return domain.Record{}, fmt.Errorf("%w: invalid amount %q", domain.ErrMalformedRecord, fields[3])
			}
			rec.Amount = amount
			rec.HasAmount = true
		}
	}
	return rec, nil
}
