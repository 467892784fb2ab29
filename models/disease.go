package models

import (
	"errors"
	"strings"
)

// Disease é o código de agravo usado pelo SINAN nos nomes dos arquivos.
type Disease string

const (
	Dengue      Disease = "DENG"
	Zika        Disease = "ZIKA"
	Chikungunya Disease = "CHIK"
)

// ErrInvalidDisease é devolvido para qualquer código fora de DENG, ZIKA e CHIK.
var ErrInvalidDisease = errors.New("only DENG, ZIKA and CHIK are allowed")

var diseaseNames = map[Disease]string{
	Dengue:      "dengue",
	Zika:        "zika",
	Chikungunya: "chikungunya",
}

func (d Disease) Valid() bool {
	_, ok := diseaseNames[d]
	return ok
}

// Name devolve o nome legível do agravo ("chikungunya" para CHIK).
func (d Disease) Name() string {
	return diseaseNames[d]
}

func (d Disease) String() string {
	return string(d)
}

// ParseDiseases aceita um código ou vários separados por vírgula ("DENG,ZIKA").
// Basta um código inválido para a lista inteira ser rejeitada.
func ParseDiseases(s string) ([]Disease, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrInvalidDisease
	}

	var diseases []Disease
	seen := make(map[Disease]bool)
	for _, part := range strings.Split(s, ",") {
		d := Disease(strings.TrimSpace(part))
		if !d.Valid() {
			return nil, ErrInvalidDisease
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		diseases = append(diseases, d)
	}
	return diseases, nil
}

// DiseaseNames junta os nomes legíveis, na ordem recebida.
func DiseaseNames(diseases []Disease) string {
	names := make([]string, 0, len(diseases))
	for _, d := range diseases {
		names = append(names, d.Name())
	}
	return strings.Join(names, ", ")
}

type YearsReport struct {
	Diseases []string `json:"diseases"`
	Years    []int    `json:"years"`
	Message  string   `json:"message"`
}
