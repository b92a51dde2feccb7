package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/neolist/neolist/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestExport_WritesHeaderAndRows(t *testing.T) {
	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	err := Export(&buf, []Row{
		{Title: "Visite Zimmer 12", Notes: "Blutdruck", DueDate: &due, Priority: entity.PriorityHigh, Completed: true, Assignees: []string{"a@klinik.de", "b@klinik.de"}},
		{Title: "Medikamente bestellen", Priority: entity.PriorityLow},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(0))
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Titel", "Notizen", "Fällig am", "Priorität", "Erledigt", "Zugewiesen"}, rows[0])
	assert.Equal(t, []string{"Visite Zimmer 12", "Blutdruck", "2026-03-14", "High", "ja", "a@klinik.de, b@klinik.de"}, rows[1])
	assert.Equal(t, "Medikamente bestellen", rows[2][0])
	assert.Equal(t, "nein", rows[2][4])
}

func TestImport_EnglishHeadersAnyOrder(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Priority", "Title", "Due date", "Assignees", "Completed"},
		[]interface{}{"urgent", "Labor anrufen", "14.03.2026", "a@klinik.de; b@klinik.de", "yes"},
	)

	rows, issues, err := Import(buf)

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, "Labor anrufen", r.Title)
	assert.Equal(t, entity.PriorityUrgent, r.Priority)
	require.NotNil(t, r.DueDate)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), *r.DueDate)
	assert.True(t, r.Completed)
	assert.Equal(t, []string{"a@klinik.de", "b@klinik.de"}, r.Assignees)
}

func TestImport_ReportsInvalidRowsAndSkipsBlankOnes(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Titel", "Priorität", "Fällig am"},
		[]interface{}{"", "High", ""},
		[]interface{}{"Verband wechseln", "", ""},
		[]interface{}{"", "", ""},
		[]interface{}{"Röntgen", "sofort", ""},
		[]interface{}{"Entlassbrief", "Low", "morgen"},
	)

	rows, issues, err := Import(buf)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Verband wechseln", rows[0].Title)
	assert.Equal(t, entity.PriorityMedium, rows[0].Priority)
	assert.Nil(t, rows[0].DueDate)

	require.Len(t, issues, 3)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "title missing", issues[0].Reason)
	assert.Equal(t, 5, issues[1].Line)
	assert.Contains(t, issues[1].Reason, "priority")
	assert.Equal(t, 6, issues[2].Line)
	assert.Contains(t, issues[2].Reason, "due date")
}

func TestImport_MissingTitleColumn(t *testing.T) {
	buf := workbook(t, []interface{}{"Name", "Priority"}, []interface{}{"x", "Low"})

	_, _, err := Import(buf)

	assert.ErrorIs(t, err, ErrMissingTitleColumn)
}
