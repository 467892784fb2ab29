// Package columns carrega o mapeamento estático dos campos do SINAN para nomes
// legíveis em inglês ou português.
package columns

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"go.uber.org/zap"
)

const (
	English    = "english"
	Portuguese = "portuguese"
)

// ErrUnsupportedLanguage é devolvido antes de qualquer acesso a arquivo.
var ErrUnsupportedLanguage = errors.New("language not supported, choose 'english' or 'portuguese'")

var files = map[string]string{
	English:    "columns_translated_english.json",
	Portuguese: "columns_translated_portuguese.json",
}

//go:embed json/*.json
var embedded embed.FS

// Mapping associa o identificador original da coluna ao nome final.
type Mapping map[string]string

// Keys devolve as chaves ordenadas, para que as renomeações sigam sempre a
// mesma sequência.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Target devolve o nome final de um campo. Campos fora do mapeamento ficam
// apenas sem acento, que é o nome que a renomeação deixa na tabela.
func (m Mapping) Target(raw string) string {
	if target, ok := m[raw]; ok {
		return target
	}
	stripped := StripAccents(raw)
	// Mesma ordem de Keys usada por RenameColumns: a primeira chave vence.
	for _, k := range m.Keys() {
		if StripAccents(k) == stripped {
			return m[k]
		}
	}
	return stripped
}

func FileName(language string) (string, error) {
	name, ok := files[language]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return name, nil
}

// Load lê o JSON do idioma pedido a partir de fsys.
func Load(fsys fs.FS, language string, logger *zap.Logger) (Mapping, error) {
	name, err := FileName(language)
	if err != nil {
		logger.Error("idioma não suportado", zap.String("language", language))
		return nil, err
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("arquivo JSON do idioma não encontrado",
				zap.String("language", language), zap.String("file", name))
		} else {
			logger.Error("erro inesperado ao ler mapeamento", zap.String("file", name), zap.Error(err))
		}
		return nil, fmt.Errorf("erro ao ler mapeamento %s: %w", name, err)
	}

	var mapping Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		logger.Error("erro ao decodificar JSON", zap.String("file", name), zap.Error(err))
		return nil, fmt.Errorf("erro ao decodificar mapeamento %s: %w", name, err)
	}
	if mapping == nil {
		mapping = Mapping{}
	}

	logger.Info("mapeamento de colunas carregado", zap.String("language", language), zap.Int("columns", len(mapping)))
	return mapping, nil
}

// LoadDir lê o mapeamento de um diretório em disco.
func LoadDir(dir, language string, logger *zap.Logger) (Mapping, error) {
	return Load(os.DirFS(dir), language, logger)
}

// Default usa os arquivos JSON embutidos no binário.
func Default(language string, logger *zap.Logger) (Mapping, error) {
	sub, err := fs.Sub(embedded, "json")
	if err != nil {
		return nil, err
	}
	return Load(sub, language, logger)
}
