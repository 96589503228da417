package bulist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeEmailsKeepsFirstPerMember(t *testing.T) {
	rows := []EmailRow{
		{Member: "101", Email: "primary@example.org"},
		{Member: "102", Email: "alice@example.org"},
		{Member: "101", Email: "old@example.org"},
		{Member: "103", Email: "bob@example.org"},
		{Member: "102", Email: "alice.work@example.org"},
	}
	out, err := DedupeEmails(rows)
	require.NoError(t, err)
	assert.Equal(t, []EmailRow{
		{Member: "101", Email: "primary@example.org"},
		{Member: "102", Email: "alice@example.org"},
		{Member: "103", Email: "bob@example.org"},
	}, out, "first email wins and first-seen member order is preserved")
}

func TestDedupeEmailsInvalidRows(t *testing.T) {
	_, err := DedupeEmails([]EmailRow{{Member: "", Email: "a@example.org"}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = DedupeEmails([]EmailRow{{Member: "101", Email: ""}})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "101")
}

func TestLoadEmailRows(t *testing.T) {
	path := writeTempCSV(t, "emails.csv",
		"Member ID,Email,Notes\n"+
			"101,primary@example.org,keep\n"+
			"101,old@example.org,\n")
	rows, err := LoadEmailRows(path, "", "")
	require.NoError(t, err)
	assert.Equal(t, []EmailRow{
		{Member: "101", Email: "primary@example.org"},
		{Member: "101", Email: "old@example.org"},
	}, rows)
}

func TestLoadEmailRowsMissingColumns(t *testing.T) {
	path := writeTempCSV(t, "emails.csv", "Something,Else\nx,y\n")
	_, err := LoadEmailRows(path, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}
