package sinan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/carlmjohnson/requests"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"dqsus/models"
)

// Diretórios publicados pelo SINAN. Dados finais têm prioridade sobre os
// preliminares do mesmo ano.
var DefaultDirs = []string{"FINAIS", "PRELIM"}

var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*"([^"]+)"`)

// HTTPSource lê o índice HTML de um espelho dos arquivos do SINAN e baixa os
// parquet para um diretório de cache.
type HTTPSource struct {
	baseURL  string
	dirs     []string
	cacheDir string
	client   *http.Client
	bucket   *ratelimit.Bucket
	logger   *zap.Logger
}

type HTTPOption func(*HTTPSource)

// WithRate limita o download a bytesPerSecond. Zero desliga o limite.
func WithRate(bytesPerSecond int64) HTTPOption {
	return func(s *HTTPSource) {
		if bytesPerSecond > 0 {
			s.bucket = ratelimit.NewBucketWithRate(float64(bytesPerSecond), bytesPerSecond)
		}
	}
}

func WithClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.client = client }
}

func WithDirs(dirs ...string) HTTPOption {
	return func(s *HTTPSource) { s.dirs = dirs }
}

func NewHTTPSource(baseURL, cacheDir string, logger *zap.Logger, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		baseURL:  baseURL,
		dirs:     DefaultDirs,
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 5 * time.Minute},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Files(ctx context.Context, disease models.Disease) ([]File, error) {
	byYear := make(map[int]File)
	for _, dir := range s.dirs {
		dirURL := s.baseURL + "/" + dir + "/"
		names, err := s.listIndex(ctx, dirURL)
		if err != nil {
			if requests.HasStatusErr(err, http.StatusNotFound) {
				s.logger.Debug("diretório ausente no espelho", zap.String("url", dirURL))
				continue
			}
			return nil, fmt.Errorf("erro ao listar %s: %w", dirURL, err)
		}

		for _, name := range names {
			f, ok := matchFile(name, disease)
			if !ok {
				continue
			}
			if _, taken := byYear[f.Year]; taken {
				continue
			}
			f.Dir = dir
			f.Location = dirURL + url.PathEscape(f.Name)
			byYear[f.Year] = f
		}
	}

	files := make([]File, 0, len(byYear))
	for _, f := range byYear {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Year < files[j].Year })

	s.logger.Info("índice do SINAN consultado",
		zap.String("disease", disease.String()), zap.Int("files", len(files)))
	return files, nil
}

// listIndex devolve os nomes apontados pelos hrefs da página de índice.
func (s *HTTPSource) listIndex(ctx context.Context, dirURL string) ([]string, error) {
	var buf bytes.Buffer
	err := requests.
		URL(dirURL).
		Client(s.client).
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Os índices do DATASUS vêm em ISO-8859-1; converte quando não é UTF-8
	body := buf.Bytes()
	if !utf8.Valid(body) {
		body, err = charmap.ISO8859_1.NewDecoder().Bytes(body)
		if err != nil {
			return nil, fmt.Errorf("erro ao decodificar índice: %w", err)
		}
	}

	var names []string
	for _, m := range hrefPattern.FindAllSubmatch(body, -1) {
		href := string(m[1])
		if unescaped, err := url.PathUnescape(href); err == nil {
			href = unescaped
		}
		names = append(names, href)
	}
	return names, nil
}

// Fetch baixa o arquivo para o cache, a menos que já esteja lá. O cache é
// separado por diretório de publicação, para que um arquivo preliminar não
// seja servido no lugar do final.
func (s *HTTPSource) Fetch(ctx context.Context, f File) (string, error) {
	dest := filepath.Join(s.cacheDir, f.Dir, f.Name)
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		s.logger.Debug("arquivo já está no cache", zap.String("file", dest))
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", fmt.Errorf("erro ao criar diretório %s: %w", filepath.Dir(dest), err)
	}

	partial := dest + ".part"
	out, err := os.Create(partial)
	if err != nil {
		return "", fmt.Errorf("erro ao criar arquivo %s: %w", partial, err)
	}

	err = requests.
		URL(f.Location).
		Client(s.client).
		Handle(func(res *http.Response) error {
			var body io.Reader = res.Body
			if s.bucket != nil {
				body = ratelimit.Reader(body, s.bucket)
			}
			_, err := io.Copy(out, body)
			return err
		}).
		Fetch(ctx)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(partial); rmErr != nil {
			s.logger.Warn("erro ao excluir arquivo parcial", zap.String("file", partial), zap.Error(rmErr))
		}
		return "", fmt.Errorf("erro ao baixar %s: %w", f.Location, err)
	}

	if err := os.Rename(partial, dest); err != nil {
		return "", fmt.Errorf("erro ao mover arquivo %s: %w", partial, err)
	}

	s.logger.Info("arquivo baixado", zap.String("file", dest), zap.Int("year", f.Year))
	return dest, nil
}
