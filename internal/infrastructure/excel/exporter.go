// Package excel exporta listados de solicitudes a XLSX con excelize.
package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Accesos-api/internal/application/report"
	"github.com/jhoicas/Accesos-api/internal/domain/catalog"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// SheetName nombre de la hoja exportada.
const SheetName = "Solicitudes"

var _ report.SpreadsheetExporter = (*Exporter)(nil)

// Columns encabezados en el orden exportado.
var Columns = []string{
	"ID", "Estado", "Solicitante", "Código empleado", "Nombre completo", "Departamento",
	"Sucursales", "Modalidad", "Tipo usuario", "Prioridad", "Fecha creación", "Fecha requerida",
	"Aprobado TH", "Aprobado Gerencia TH", "Aprobado TI", "Aprobado Gerencia TI", "Usuario emitido",
}

// Exporter implementa report.SpreadsheetExporter.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportRequests escribe una fila por solicitud, en el orden recibido.
func (e *Exporter) ExportRequests(_ context.Context, reqs []*entity.AccessRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	for i, col := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, col)
		f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for rowIdx, r := range reqs {
		for colIdx, v := range rowValues(r) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(SheetName, cell, v)
		}
	}

	for i := range Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetName, col, col, 18)
	}
	if len(reqs) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(Columns), len(reqs)+1)
		if err := f.AutoFilter(SheetName, "A1:"+last, nil); err != nil {
			return nil, fmt.Errorf("xlsx: autofiltro: %w", err)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func rowValues(r *entity.AccessRequest) []string {
	approvalDate := func(stage entity.Stage) string {
		if a, ok := r.Approvals[stage]; ok {
			return a.Date
		}
		return ""
	}
	issued := ""
	if r.Credentials != nil {
		issued = r.Credentials.Username
	}
	d := r.Details
	return []string{
		r.ID,
		r.Status.DisplayName(),
		r.RequesterName,
		d.EmployeeCode,
		d.FullName,
		d.Department,
		strings.Join(d.Branches, ", "),
		catalog.Label(catalog.ContractModalities(), d.ContractModality),
		catalog.Label(catalog.UserActions(), d.UserAction),
		catalog.Label(catalog.Priorities(), string(d.Priority)),
		r.CreatedDate,
		d.RequiredDate,
		approvalDate(entity.StageHR),
		approvalDate(entity.StageHRManagement),
		approvalDate(entity.StageIT),
		approvalDate(entity.StageITManagement),
		issued,
	}
}
