// Package pdf implementa el formato imprimible de la Solicitud de Accesos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Estado      │  N° Solicitud + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS GENERALES: empleado, departamento, modalidad          │
//	│  UBICACIÓN: sucursales / puestos / áreas                     │
//	│  ACCESOS: SAP | Sistemas | Red y comunicaciones              │
//	│  JUSTIFICACIÓN + OBSERVACIONES                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Solicitante | TH | Gerencia TH | TI | Gerencia TI   │
//	│  CREDENCIALES (solo completadas) + QR de verificación        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Accesos-api/internal/application/report"
	"github.com/jhoicas/Accesos-api/internal/domain/catalog"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

var _ report.RequestPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.RequestPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador. company aparece como autor del documento.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

// GenerateRequestPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRequestPDF(_ context.Context, req *entity.AccessRequest) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("pdf: solicitud nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Solicitud de Accesos "+req.ID, true).
		WithAuthor(nonEmpty(g.company, "Accesos"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(generalRows(req.Details)...)
	m.AddRows(locationRows(req.Details)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(accessRows(req.Details)...)
	m.AddRows(justificationRows(req.Details)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatureRows(req)...)

	if req.Credentials != nil {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(credentialRows(req.Credentials)...)
	}
	m.AddRows(footerRow(req))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + estado (izq) y N° solicitud + fecha (der).
func headerRow(req *entity.AccessRequest) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("SOLICITUD DE ACCESOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+req.Status.DisplayName(), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° SOLICITUD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(req.ID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+req.CreatedDate, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sectionTitle: título de sección con barra de color.
func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5, Left: 2,
		}),
	)).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func field(label, value string, size int) core.Col {
	return col.New(size).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
		text.New(nonEmpty(value, "—"), props.Text{Size: 9, Top: 5}),
	)
}

func generalRows(d entity.RequestDetails) []core.Row {
	return []core.Row{
		sectionTitle("DATOS GENERALES"),
		row.New(12).Add(
			field("Código empleado SAP", d.EmployeeCode, 3),
			field("Nombre completo", d.FullName, 6),
			field("Departamento", d.Department, 3),
		),
		row.New(12).Add(
			field("Modalidad", catalog.Label(catalog.ContractModalities(), d.ContractModality), 3),
			field("Tipo de usuario", catalog.Label(catalog.UserActions(), d.UserAction), 3),
			field("Sustituye a", d.ReplacesUser, 6),
		),
	}
}

func locationRows(d entity.RequestDetails) []core.Row {
	return []core.Row{
		row.New(14).Add(
			field("Sucursales", strings.Join(d.Branches, ", "), 4),
			field("Puestos", strings.Join(d.Positions, ", "), 4),
			field("Áreas", strings.Join(d.Areas, ", "), 4),
		),
	}
}

// accessRows: tres columnas con casillas marcadas.
func accessRows(d entity.RequestDetails) []core.Row {
	sap := []string{
		check(d.SAP.User, "Usuario SAP"),
		check(d.SAP.AllCompanies, "Acceso a todas las sociedades"),
		check(d.SAP.WarehouseKeeper, "Encargado de bodega"),
	}
	if d.SAP.Code != "" {
		sap = append(sap, "Código: "+d.SAP.Code)
	}
	if d.SAP.WarehouseNumber != "" {
		sap = append(sap, "Bodega N°: "+d.SAP.WarehouseNumber)
	}
	systems := []string{
		check(d.Systems.HIS, "HIS"),
		check(d.Systems.Ecommerce, "E-commerce"),
		check(d.Systems.HTIS, "HTIS"),
		check(d.Systems.DocumentManager, "Gestor documental"),
		check(d.Systems.SalesSystem, "Sistema de ventas"),
	}
	if d.Systems.CashRegister != "" {
		systems = append(systems, "Caja N°: "+d.Systems.CashRegister)
	}
	network := []string{
		check(d.Network.PhoneExtension, "Extensión telefónica"),
		check(d.Network.Email, "Correo electrónico"),
		check(d.Network.Internet, "Internet"),
		check(d.Network.SocialMedia, "Redes sociales"),
		check(d.Network.YouTube, "YouTube"),
	}
	if d.Network.WebPages != "" {
		network = append(network, "Páginas: "+d.Network.WebPages)
	}

	height := float64(maxLen(sap, systems, network))*4.5 + 7
	block := func(title string, lines []string) core.Col {
		c := col.New(4).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
		for i, l := range lines {
			c.Add(text.New(l, props.Text{Size: 8, Top: 6 + float64(i)*4.5, Left: 1}))
		}
		return c
	}
	return []core.Row{
		sectionTitle("ACCESOS SOLICITADOS"),
		row.New(height).Add(
			block("SAP", sap),
			block("Sistemas", systems),
			block("Red y comunicaciones", network),
		),
	}
}

func justificationRows(d entity.RequestDetails) []core.Row {
	rows := []core.Row{
		sectionTitle("JUSTIFICACIÓN"),
		row.New(12).Add(
			field("Tipo", d.RequestType, 4),
			field("Prioridad", catalog.Label(catalog.Priorities(), string(d.Priority)), 4),
			field("Fecha requerida", d.RequiredDate, 4),
		),
		row.New(12).Add(field("Justificación", d.Justification, 12)),
	}
	if d.Details != "" {
		rows = append(rows, row.New(12).Add(field("Detalles", d.Details, 12)))
	}
	obs := observationLines(d.Observations)
	if len(obs) > 0 {
		rows = append(rows, sectionTitle("OBSERVACIONES"))
		for _, o := range obs {
			rows = append(rows, row.New(5).Add(col.New(12).Add(
				text.New(o, props.Text{Size: 8, Top: 1, Left: 2}),
			)))
		}
	}
	return rows
}

// signatureRows: cinco columnas de firma (imagen + nombre + fecha), en orden de pipeline.
func signatureRows(req *entity.AccessRequest) []core.Row {
	stages := append([]entity.Stage{entity.StageRequester}, entity.ApproverStages()...)
	labels := map[entity.Stage]string{
		entity.StageRequester:    "Solicitante",
		entity.StageHR:           "Talento Humano",
		entity.StageHRManagement: "Gerencia TH",
		entity.StageIT:           "Tecnología",
		entity.StageITManagement: "Gerencia TI",
	}
	// 12 columnas de grilla repartidas en 5 firmas: 3+2+2+2+3
	sizes := []int{3, 2, 2, 2, 3}

	images := make([]core.Col, 0, len(stages))
	captions := make([]core.Col, 0, len(stages))
	for i, stage := range stages {
		imgCol := col.New(sizes[i])
		if b, ext, ok := decodeDataURL(req.Signatures[stage]); ok {
			imgCol.Add(image.NewFromBytes(b, ext, props.Rect{Center: true, Percent: 80}))
		}
		images = append(images, imgCol)

		name, date := "", ""
		if stage == entity.StageRequester {
			name, date = req.RequesterName, req.CreatedDate
		} else if a, ok := req.Approvals[stage]; ok {
			name, date = a.ApproverName, a.Date
		}
		captions = append(captions, col.New(sizes[i]).Add(
			text.New(labels[stage], props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorPrimary}),
			text.New(nonEmpty(name, "Pendiente"), props.Text{Size: 7, Align: align.Center, Top: 4}),
			text.New(date, props.Text{Size: 6.5, Align: align.Center, Top: 8, Color: colorGray}),
		))
	}
	return []core.Row{
		sectionTitle("FIRMAS"),
		row.New(22).Add(images...),
		row.New(12).Add(captions...),
	}
}

func credentialRows(c *entity.Credentials) []core.Row {
	return []core.Row{
		sectionTitle("CREDENCIALES EMITIDAS"),
		row.New(12).Add(
			field("Correo", c.Email, 4),
			field("Usuario", c.Username, 2),
			field("Usuario de red", c.NetworkUser, 2),
			field("Usuario APP", c.AppUser, 2),
			field("Fecha de envío", c.IssuedAt, 2),
		),
	}
}

// footerRow: QR de verificación + leyenda.
func footerRow(req *entity.AccessRequest) core.Row {
	payload := fmt.Sprintf("%s|%s|%s", req.ID, req.Status, req.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(payload, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento generado por el sistema de Solicitud de Accesos.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("El código QR identifica la solicitud y su estado al momento de la impresión.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func check(ok bool, label string) string {
	if ok {
		return "[X] " + label
	}
	return "[  ] " + label
}

func maxLen(lists ...[]string) int {
	n := 0
	for _, l := range lists {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}

func observationLines(o entity.Observations) []string {
	pairs := [][2]string{
		{"SAP", o.SAP}, {"HIS", o.HIS}, {"E-commerce", o.Ecommerce}, {"HTIS", o.HTIS},
		{"Gestor documental", o.DocumentManager}, {"Sistema de ventas", o.SalesSystem},
		{"Red", o.Network}, {"General", o.General},
	}
	var out []string
	for _, p := range pairs {
		if p[1] != "" {
			out = append(out, p[0]+": "+p[1])
		}
	}
	return out
}
