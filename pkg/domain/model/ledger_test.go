package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

func ledgerIdentity(team, user, teamName, userName string) model.Identity {
	return model.Identity{
		TeamID:   types.TeamID(team),
		TeamName: teamName,
		UserID:   types.UserID(user),
		UserName: userName,
	}
}

func TestParseLedgerTableEmpty(t *testing.T) {
	table, err := model.ParseLedgerTable(nil)
	gt.NoError(t, err).Required()
	gt.Number(t, table.Len()).Equal(0)

	table, err = model.ParseLedgerTable([]byte{})
	gt.NoError(t, err).Required()
	gt.Number(t, table.Len()).Equal(0)
}

func TestParseLedgerTableSkipsHeader(t *testing.T) {
	data := []byte("user_name,team_name,user_id,team_id,questions\nJane Smith,Acme,U001,T001,3\n")

	table, err := model.ParseLedgerTable(data)
	gt.NoError(t, err).Required()
	gt.Number(t, table.Len()).Equal(1)

	row := table.Lookup(ledgerIdentity("T001", "U001", "Acme", "Jane Smith"))
	gt.Value(t, row).NotNil().Required()
	gt.Value(t, row.Questions).Equal(int64(3))
}

func TestParseLedgerTableHeaderless(t *testing.T) {
	// Tables written before the header was introduced have data on the
	// first line.
	data := []byte("Jane Smith,Acme,U001,T001,3\nJohn Doe,Acme,U002,T001,1\n")

	table, err := model.ParseLedgerTable(data)
	gt.NoError(t, err).Required()
	gt.Number(t, table.Len()).Equal(2)
}

func TestParseLedgerTableSkipsMalformedRows(t *testing.T) {
	data := []byte(strings.Join([]string{
		"user_name,team_name,user_id,team_id,questions",
		"Jane Smith,Acme,U001,T001,3",
		"short,row",
		"John Doe,Acme,U002,T001,not-a-number",
		"Eve Adams,Acme,U003,T001,-5",
		"Bob Lee,Acme,U004,T001,7",
	}, "\n"))

	table, err := model.ParseLedgerTable(data)
	gt.NoError(t, err).Required()
	gt.Number(t, table.Len()).Equal(2)
}

func TestLedgerIncrementInsertsNewRow(t *testing.T) {
	table := &model.LedgerTable{}

	id := ledgerIdentity("T001", "U001", "Acme", "Jane Smith")
	row := table.Increment(id)
	gt.Value(t, row.Questions).Equal(int64(1))
	gt.Value(t, row.UserName).Equal("Jane Smith")
	gt.Value(t, row.TeamID).Equal("T001")
	gt.Number(t, table.Len()).Equal(1)

	row = table.Increment(id)
	gt.Value(t, row.Questions).Equal(int64(2))
	gt.Number(t, table.Len()).Equal(1)
}

func TestLedgerMarshalSortsDescending(t *testing.T) {
	table := &model.LedgerTable{}

	low := ledgerIdentity("T001", "U001", "Acme", "Jane Smith")
	high := ledgerIdentity("T001", "U002", "Acme", "John Doe")

	table.Increment(low)
	for i := 0; i < 3; i++ {
		table.Increment(high)
	}

	out, err := table.Marshal()
	gt.NoError(t, err).Required()

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	gt.Array(t, lines).Length(3)
	gt.Value(t, lines[0]).Equal("user_name,team_name,user_id,team_id,questions")
	gt.Bool(t, strings.HasPrefix(lines[1], "John Doe,")).True()
	gt.Bool(t, strings.HasPrefix(lines[2], "Jane Smith,")).True()
}

func TestLedgerMarshalKeepsTieOrder(t *testing.T) {
	table := &model.LedgerTable{}

	first := ledgerIdentity("T001", "U001", "Acme", "Jane Smith")
	second := ledgerIdentity("T001", "U002", "Acme", "John Doe")
	table.Increment(first)
	table.Increment(second)

	out, err := table.Marshal()
	gt.NoError(t, err).Required()

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	gt.Array(t, lines).Length(3)
	gt.Bool(t, strings.HasPrefix(lines[1], "Jane Smith,")).True()
	gt.Bool(t, strings.HasPrefix(lines[2], "John Doe,")).True()
}

func TestLedgerRoundTrip(t *testing.T) {
	table := &model.LedgerTable{}
	id := ledgerIdentity("T001", "U001", "Acme", "Jane Smith")
	table.Increment(id)
	table.Increment(id)

	out, err := table.Marshal()
	gt.NoError(t, err).Required()

	parsed, err := model.ParseLedgerTable(out)
	gt.NoError(t, err).Required()
	gt.Number(t, parsed.Len()).Equal(1)

	row := parsed.Lookup(id)
	gt.Value(t, row).NotNil().Required()
	gt.Value(t, row.Questions).Equal(int64(2))
}
