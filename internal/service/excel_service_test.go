package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("data.xlsx"))
	assert.True(t, IsSupported("DATA.XLS"))
	assert.False(t, IsSupported("data.csv"))
	assert.False(t, IsSupported("xlsx"))
}

func TestParseDatasetXLSX(t *testing.T) {
	data := workbookBytes(t,
		[]interface{}{" vendor_name ", "", "jumlah", "jumlah"},
		[]interface{}{"PT Satu", "x", 1500000, 2},
		[]interface{}{},
		[]interface{}{"", "", "", ""},
		[]interface{}{"PT Dua", "", 250.5, 3},
	)

	parsed, err := NewExcelService().ParseDataset("upload.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", parsed.SheetName)
	assert.Equal(t, []string{"vendor_name", "Unnamed: 1", "jumlah", "jumlah.1"}, parsed.Dataset.Columns)
	require.Equal(t, 2, parsed.Dataset.Len())
	assert.Equal(t, "PT Satu", parsed.Dataset.Rows[0][0])
	assert.Equal(t, "1500000", parsed.Dataset.Rows[0][2])
	assert.Equal(t, "250.5", parsed.Dataset.Rows[1][2])
}

func TestParseDatasetErrors(t *testing.T) {
	svc := NewExcelService()

	_, err := svc.ParseDataset("upload.csv", []byte("a,b"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = svc.ParseDataset("broken.xlsx", []byte("not a workbook"))
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.xlsx", parseErr.Filename)

	_, err = svc.ParseDataset("broken.xls", []byte("not a workbook"))
	require.ErrorAs(t, err, &parseErr)

	_, err = svc.ParseDataset("empty.xlsx", workbookBytes(t))
	require.ErrorAs(t, err, &parseErr)
}
