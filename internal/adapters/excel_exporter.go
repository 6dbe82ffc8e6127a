package adapters

import (
	"fmt"
	"io"
	"sort"

	"github.com/360EntSecGroup-Skylar/excelize"

	"patient-management-service/internal/domain/entities"
)

// PatientsSheet is the worksheet written by ExcelExporter.
const PatientsSheet = "Patients"

var patientColumns = []struct {
	col    string
	header string
}{
	{"A", "ID"},
	{"B", "Name"},
	{"C", "City"},
	{"D", "Age"},
	{"E", "Gender"},
	{"F", "Height"},
	{"G", "Weight"},
	{"H", "BMI"},
	{"I", "Verdict"},
}

// ExcelExporter renders patients as an xlsx workbook.
type ExcelExporter struct{}

// NewExcelExporter creates an ExcelExporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// ContentType is the MIME type of the produced workbook.
func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export writes one header row and one row per patient, ordered by id.
func (e *ExcelExporter) Export(w io.Writer, patients []*entities.Patient) error {
	sorted := make([]*entities.Patient, len(patients))
	copy(sorted, patients)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	file := excelize.NewFile()
	file.NewSheet(PatientsSheet)
	file.DeleteSheet("Sheet1")

	for _, c := range patientColumns {
		file.SetCellValue(PatientsSheet, c.col+"1", c.header)
	}
	for i, p := range sorted {
		appendPatientRow(file, i+2, p)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("rendering workbook: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func appendPatientRow(file *excelize.File, row int, p *entities.Patient) {
	cell := func(col string) string { return fmt.Sprintf("%s%d", col, row) }

	file.SetCellValue(PatientsSheet, cell("A"), p.ID)
	file.SetCellValue(PatientsSheet, cell("B"), p.Name)
	file.SetCellValue(PatientsSheet, cell("C"), p.City)
	file.SetCellValue(PatientsSheet, cell("D"), p.Age)
	file.SetCellValue(PatientsSheet, cell("E"), string(p.Gender))
	file.SetCellValue(PatientsSheet, cell("F"), p.Height)
	file.SetCellValue(PatientsSheet, cell("G"), p.Weight)
	if bmi, ok := p.BMI(); ok {
		file.SetCellValue(PatientsSheet, cell("H"), bmi)
		file.SetCellValue(PatientsSheet, cell("I"), string(entities.VerdictFor(bmi)))
	}
}
