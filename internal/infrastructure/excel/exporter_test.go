package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/excel"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/seed"
)

func TestExportRequests_FilasYEncabezados(t *testing.T) {
	req := seed.Requests(time.Now())[0]
	req.Approvals[entity.StageHR] = entity.Approval{Date: "2024-01-16", ApproverName: "María García"}

	b, err := excel.NewExporter().ExportRequests(context.Background(), []*entity.AccessRequest{req})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, excel.Columns, rows[0])
	assert.Equal(t, "REQ-001", rows[1][0])
	assert.Equal(t, "Pendiente Talento Humano", rows[1][1])
	assert.Equal(t, "Nómina", rows[1][7])
	assert.Equal(t, "2024-01-16", rows[1][12])
}

func TestExportRequests_Vacio(t *testing.T) {
	b, err := excel.NewExporter().ExportRequests(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "solo encabezados")
}
