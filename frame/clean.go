// Package frame limpa e grava os DataFrames devolvidos pelos acessores.
package frame

import (
	"github.com/go-gota/gota/dataframe"
)

// Empty vale para frames sem linhas ou sem colunas.
func Empty(df dataframe.DataFrame) bool {
	return df.Nrow() == 0 || df.Ncol() == 0
}

// DropEmptyColumns remove as colunas em que todos os valores são NaN.
func DropEmptyColumns(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Ncol() == 0 {
		return df
	}

	var keep []string
	for _, name := range df.Names() {
		for _, nan := range df.Col(name).IsNaN() {
			if !nan {
				keep = append(keep, name)
				break
			}
		}
	}

	switch len(keep) {
	case 0:
		return dataframe.DataFrame{}
	case df.Ncol():
		return df
	}
	return df.Select(keep)
}

// DropEmptyRows remove as linhas em que todos os valores são NaN.
func DropEmptyRows(df dataframe.DataFrame) dataframe.DataFrame {
	if Empty(df) {
		return df
	}

	filled := make([]bool, df.Nrow())
	for _, name := range df.Names() {
		for i, nan := range df.Col(name).IsNaN() {
			if !nan {
				filled[i] = true
			}
		}
	}

	var keep []int
	for i, ok := range filled {
		if ok {
			keep = append(keep, i)
		}
	}

	switch len(keep) {
	case 0:
		return dataframe.DataFrame{}
	case df.Nrow():
		return df
	}
	return df.Subset(keep)
}

// Clean aplica DropEmptyColumns e depois DropEmptyRows.
func Clean(df dataframe.DataFrame) dataframe.DataFrame {
	df = DropEmptyColumns(df)
	if Empty(df) {
		return dataframe.DataFrame{}
	}
	return DropEmptyRows(df)
}
