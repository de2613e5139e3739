package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extrato.csv")
	content := "\ufeffData,Descrição,Categoria,Valor,Tipo\n" +
		"2024-03-01,Salário,Salário,5000,entrada\n" +
		"\n" +
		"2024-03-02,\"Mercado, feira\",Alimentação,150.50,saida\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tbl, err := New(path).ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Descrição", "Categoria", "Valor", "Tipo"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Mercado, feira", tbl.Rows[1][1])
	assert.Equal(t, "150.50", tbl.Rows[1][3])
	assert.Equal(t, []int{2, 4}, tbl.Lines, "blank line 3 still counts")
}

func TestReadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extrato.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"Data", "Descrição", "Categoria", "Valor", "Tipo"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]any{"2024-03-05", "Aluguel", "Moradia", 1200.5, "saida"}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	tbl, err := New(path).ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Descrição", tbl.Header[1])
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Aluguel", tbl.Rows[0][1])
	assert.Equal(t, "1200.5", tbl.Rows[0][3])
	assert.Equal(t, 2, tbl.Line(0))
}

func TestReadTable_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New("extrato.ods").ReadTable(ctx)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(t.TempDir(), "missing.csv")).ReadTable(ctx)
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing.xlsx")).ReadTable(ctx)
	assert.Error(t, err)
}
