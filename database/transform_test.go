package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dqsus/columns"
	"dqsus/models"
)

func TestTransform_CreatesTablesWithPresentColumns(t *testing.T) {
	mock, store := setupMockStore(t, zap.NewNop())

	mapping := columns.Mapping{
		"DT_NOTIFIC": "notification_date",
		"CS_SEXO":    "sex",
		"FEBRE":      "fever",
		"DT_DIGITA":  "typing_date",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(columnsQuery).WithArgs("sinan").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
			AddRow("notification_date").AddRow("sex").AddRow("fever").AddRow("typing_date").AddRow("NU_ANO"))
	mock.ExpectExec(`CREATE OR REPLACE TABLE "notifications_info" AS SELECT "notification_date", "NU_ANO" FROM "sinan"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE OR REPLACE TABLE "personal_data" AS SELECT "sex" FROM "sinan"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE OR REPLACE TABLE "clinical_signs" AS SELECT "fever" FROM "sinan"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS "patient_diseases"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS "exams"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS "hospital_info"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS "alarms_severities"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE OR REPLACE TABLE "sinan_internal_info" AS SELECT "typing_date" FROM "sinan"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectClose()

	created, err := store.Transform(context.Background(), mapping)

	require.NoError(t, err)
	assert.Equal(t, []string{"notification_date", "NU_ANO"}, created[models.NotificationsInfo])
	assert.Equal(t, []string{"sex"}, created[models.PersonalData])
	assert.NotContains(t, created, models.Exams)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectColumns(t *testing.T) {
	mapping := columns.Mapping{"CS_SEXO": "sex", "CS_RACA": "race"}
	present := map[string]bool{"sex": true, "ANO_NASC": true}

	cols := SelectColumns(models.Fields[models.PersonalData], mapping, present)

	assert.Equal(t, []string{"ANO_NASC", "sex"}, cols)
}
