package frame

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
)

func newFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]interface{}{"F", nil, "M", nil}, series.String, "sex"),
		series.New([]interface{}{34, nil, nil, nil}, series.Int, "age"),
		series.New([]interface{}{nil, nil, nil, nil}, series.String, "death_date"),
		series.New([]interface{}{nil, nil, nil, "1"}, series.String, "fever"),
	)
}

func TestDropEmptyColumns(t *testing.T) {
	df := DropEmptyColumns(newFrame())

	assert.Equal(t, []string{"sex", "age", "fever"}, df.Names())
	assert.Equal(t, 4, df.Nrow())
}

func TestDropEmptyRows(t *testing.T) {
	df := DropEmptyRows(DropEmptyColumns(newFrame()))

	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"F", "M", "NaN"}, df.Col("sex").Records())
	assert.Equal(t, []bool{true, true, false}, df.Col("fever").IsNaN())
}

func TestClean_RowEmptyOnlyAfterColumnPruning(t *testing.T) {
	df := dataframe.New(
		series.New([]interface{}{"a", nil}, series.String, "kept"),
		series.New([]interface{}{nil, nil}, series.String, "dropped"),
	)

	cleaned := Clean(df)

	assert.Equal(t, []string{"kept"}, cleaned.Names())
	assert.Equal(t, 1, cleaned.Nrow())
}

func TestClean_AllNull(t *testing.T) {
	df := dataframe.New(
		series.New([]interface{}{nil, nil}, series.String, "a"),
		series.New([]interface{}{nil, nil}, series.Int, "b"),
	)

	cleaned := Clean(df)

	assert.True(t, Empty(cleaned))
	assert.NoError(t, cleaned.Err)
}

func TestClean_NothingToDrop(t *testing.T) {
	df := dataframe.New(
		series.New([]interface{}{"a", "b"}, series.String, "x"),
	)

	cleaned := Clean(df)

	assert.Equal(t, df.Records(), cleaned.Records())
}

func TestClean_EmptyFrame(t *testing.T) {
	assert.True(t, Empty(Clean(dataframe.DataFrame{})))
}
