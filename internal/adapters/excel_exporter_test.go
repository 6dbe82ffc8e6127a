package adapters

import (
	"bytes"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-management-service/internal/domain/entities"
)

func TestExcelExporter_Export(t *testing.T) {
	patients := []*entities.Patient{
		{ID: "P002", Name: "Ravi Kumar", City: "Chennai", Age: 52, Gender: entities.GenderMale, Height: 1.70, Weight: 85},
		{ID: "P001", Name: "Ananya Verma", City: "Guwahati", Age: 28, Gender: entities.GenderFemale, Height: 1.65, Weight: 90},
	}

	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Export(&buf, patients))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows := f.GetRows(PatientsSheet)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Name", "City", "Age", "Gender", "Height", "Weight", "BMI", "Verdict"}, rows[0])
	assert.Equal(t, "P001", rows[1][0])
	assert.Equal(t, "33.06", rows[1][7])
	assert.Equal(t, "Obese", rows[1][8])
	assert.Equal(t, "P002", rows[2][0])
	assert.Equal(t, "Chennai", rows[2][2])
}

func TestExcelExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Export(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Len(t, f.GetRows(PatientsSheet), 1)
}
