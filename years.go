package dqsus

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dqsus/models"
	"dqsus/sinan"
)

// GetYears lista os anos publicados para os agravos informados ("CHIK" ou
// "DENG,ZIKA"). Códigos inválidos devolvem models.ErrInvalidDisease antes de
// qualquer acesso à origem.
func (c *Client) GetYears(ctx context.Context, disease string) ([]int, error) {
	diseases, err := models.ParseDiseases(disease)
	if err != nil {
		return nil, err
	}
	return c.availableYears(ctx, diseases)
}

func (c *Client) availableYears(ctx context.Context, diseases []models.Disease) ([]int, error) {
	src, err := c.newSource(c.logger)
	if err != nil {
		return nil, err
	}

	var all []sinan.File
	for _, d := range diseases {
		files, err := src.Files(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("erro ao listar arquivos de %s: %w", d.Name(), err)
		}
		all = append(all, files...)
	}

	years := sinan.Years(all)
	c.logger.Info("anos disponíveis",
		zap.String("disease", models.DiseaseNames(diseases)), zap.Ints("years", years))
	return years, nil
}

// Years devolve o relatório com a frase pronta para exibição.
func (c *Client) Years(ctx context.Context, disease string) (models.YearsReport, error) {
	diseases, err := models.ParseDiseases(disease)
	if err != nil {
		return models.YearsReport{}, err
	}
	years, err := c.availableYears(ctx, diseases)
	if err != nil {
		return models.YearsReport{}, err
	}

	report := models.YearsReport{Years: years, Message: YearsMessage(diseases, years)}
	for _, d := range diseases {
		report.Diseases = append(report.Diseases, d.Name())
	}
	return report, nil
}

// YearsMessage monta "The available data for chikungunya is from the years:
// 2022, 2023."
func YearsMessage(diseases []models.Disease, years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return fmt.Sprintf("The available data for %s is from the years: %s.",
		models.DiseaseNames(diseases), strings.Join(parts, ", "))
}
