// Package sinan descobre e obtém os arquivos anuais publicados pelo SINAN.
package sinan

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"dqsus/models"
)

// File é um arquivo anual de um agravo (ex.: CHIKBR22.parquet).
type File struct {
	Name     string
	Disease  models.Disease
	Year     int
	Dir      string // diretório de publicação (FINAIS, PRELIM); vazio na origem local
	Location string // URL ou caminho local, conforme a origem
}

// Source lista os arquivos de um agravo e entrega um caminho local legível
// pelo DuckDB para cada um.
type Source interface {
	Files(ctx context.Context, disease models.Disease) ([]File, error)
	Fetch(ctx context.Context, f File) (string, error)
}

var yearPattern = regexp.MustCompile(`BR(\d{2})`)

// ParseYear extrai o ano de dois dígitos após "BR" e soma 2000.
func ParseYear(name string) (int, bool) {
	m := yearPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	yy, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return 2000 + yy, true
}

// matchFile aceita apenas "<CODIGO>BR<AA>.parquet" do agravo pedido.
func matchFile(name string, disease models.Disease) (File, bool) {
	base := path.Base(name)
	upper := strings.ToUpper(base)
	if !strings.HasPrefix(upper, string(disease)+"BR") || !strings.HasSuffix(upper, ".PARQUET") {
		return File{}, false
	}
	year, ok := ParseYear(upper)
	if !ok {
		return File{}, false
	}
	return File{Name: base, Disease: disease, Year: year}, true
}

// Years devolve os anos distintos, em ordem crescente.
func Years(files []File) []int {
	seen := make(map[int]bool)
	var years []int
	for _, f := range files {
		if seen[f.Year] {
			continue
		}
		seen[f.Year] = true
		years = append(years, f.Year)
	}
	sort.Ints(years)
	return years
}

// SelectYears mantém só os arquivos dos anos pedidos.
func SelectYears(files []File, years []int) []File {
	wanted := make(map[int]bool, len(years))
	for _, y := range years {
		wanted[y] = true
	}
	var selected []File
	for _, f := range files {
		if wanted[f.Year] {
			selected = append(selected, f)
		}
	}
	return selected
}
