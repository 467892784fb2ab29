package sinan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"dqsus/models"
)

// DirSource lê arquivos parquet já presentes num diretório local. Um
// "CHIKBR22.parquet" pode ser arquivo único ou diretório com partes.
type DirSource struct {
	dir    string
	logger *zap.Logger
}

func NewDirSource(dir string, logger *zap.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

func (s *DirSource) Files(_ context.Context, disease models.Disease) ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler diretório %s: %w", s.dir, err)
	}

	var files []File
	for _, entry := range entries {
		f, ok := matchFile(entry.Name(), disease)
		if !ok {
			continue
		}
		f.Location = filepath.Join(s.dir, entry.Name())
		if entry.IsDir() {
			f.Location = filepath.Join(f.Location, "*.parquet")
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Year < files[j].Year })
	s.logger.Debug("arquivos locais encontrados",
		zap.String("disease", disease.String()), zap.Int("files", len(files)))
	return files, nil
}

func (s *DirSource) Fetch(_ context.Context, f File) (string, error) {
	return f.Location, nil
}
