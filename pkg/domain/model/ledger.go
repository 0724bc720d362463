package model

import (
	"bytes"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/m-mizutani/goerr/v2"
)

// LedgerRow is one line of the usage table persisted in the content store.
// Column order is fixed by the serialized header.
type LedgerRow struct {
	UserName  string `csv:"user_name"`
	TeamName  string `csv:"team_name"`
	UserID    string `csv:"user_id"`
	TeamID    string `csv:"team_id"`
	Questions int64  `csv:"questions"`
}

// LedgerTable is the whole counter table, one row per (team_id, user_id).
type LedgerTable struct {
	rows []*LedgerRow
}

const ledgerColumns = 5

// ParseLedgerTable reads a serialized table. A nil or empty blob is an
// empty table. A header row is detected by column-name sniffing: a row
// whose first cell is the literal "user_name" is skipped. The heuristic is
// known to be fragile for data rows that coincidentally carry that value;
// it is kept as-is on purpose.
func ParseLedgerTable(data []byte) (*LedgerTable, error) {
	table := &LedgerTable{}
	if len(data) == 0 {
		return table, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse ledger table")
		}
		if len(record) != ledgerColumns {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(record[0]), "user_name") {
			continue
		}

		questions, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
		if err != nil || questions < 0 {
			continue
		}

		table.rows = append(table.rows, &LedgerRow{
			UserName:  record[0],
			TeamName:  record[1],
			UserID:    record[2],
			TeamID:    record[3],
			Questions: questions,
		})
	}

	return table, nil
}

// Len returns the number of data rows.
func (x *LedgerTable) Len() int {
	return len(x.rows)
}

// Rows returns the rows in their current order.
func (x *LedgerTable) Rows() []*LedgerRow {
	return x.rows
}

// Lookup finds the row for the given identity key, or nil.
func (x *LedgerTable) Lookup(id Identity) *LedgerRow {
	for _, row := range x.rows {
		if row.TeamID == id.TeamID.String() && row.UserID == id.UserID.String() {
			return row
		}
	}
	return nil
}

// Increment bumps the question count for the identity, inserting a new row
// with questions = 1 when the identity is not present yet.
func (x *LedgerTable) Increment(id Identity) *LedgerRow {
	if row := x.Lookup(id); row != nil {
		row.Questions++
		return row
	}

	row := &LedgerRow{
		UserName:  id.UserName,
		TeamName:  id.TeamName,
		UserID:    id.UserID.String(),
		TeamID:    id.TeamID.String(),
		Questions: 1,
	}
	x.rows = append(x.rows, row)
	return row
}

// Marshal serializes the table with its fixed header, rows ordered
// descending by question count. Ties keep their prior order.
func (x *LedgerTable) Marshal() ([]byte, error) {
	sort.SliceStable(x.rows, func(i, j int) bool {
		return x.rows[i].Questions > x.rows[j].Questions
	})

	out, err := gocsv.MarshalString(&x.rows)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal ledger table")
	}
	return []byte(out), nil
}
