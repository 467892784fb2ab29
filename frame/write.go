package frame

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Write grava o frame em CSV ou, se o caminho terminar em .xlsx, numa
// planilha. Caminho vazio ou "-" escreve CSV em stdout.
func Write(df dataframe.DataFrame, path, sheet string, stdout io.Writer) error {
	if path == "" || path == "-" {
		return WriteCSV(df, stdout)
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteXLSX(df, path, sheet)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo %s: %w", path, err)
	}
	defer outFile.Close()
	return WriteCSV(df, outFile)
}

func WriteCSV(df dataframe.DataFrame, w io.Writer) error {
	if Empty(df) {
		return nil
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("erro ao escrever CSV: %w", err)
	}
	return nil
}

// WriteXLSX grava o frame numa única aba; NaN vira célula vazia.
func WriteXLSX(df dataframe.DataFrame, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet = sheetName(sheet)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("erro ao nomear aba %s: %w", sheet, err)
	}

	names := df.Names()
	header := make([]interface{}, len(names))
	cols := make([]series.Series, len(names))
	for j, name := range names {
		header[j] = name
		cols[j] = df.Col(name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i := 0; i < df.Nrow(); i++ {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			row[j] = cellValue(col.Elem(i), col.Type())
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("erro ao salvar planilha %s: %w", path, err)
	}
	return nil
}

func cellValue(el series.Element, kind series.Type) interface{} {
	if el.IsNA() {
		return nil
	}
	switch kind {
	case series.Int:
		if n, err := el.Int(); err == nil {
			return n
		}
	case series.Float:
		return el.Float()
	case series.Bool:
		if b, err := el.Bool(); err == nil {
			return b
		}
	}
	return el.String()
}

// O Excel limita nomes de aba a 31 caracteres.
func sheetName(name string) string {
	if name == "" {
		return "Sheet1"
	}
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
