// Package archive empaqueta los documentos de una solicitud en un ZIP en memoria.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jhoicas/Accesos-api/internal/application/report"
)

var _ report.Archiver = (*ZipBuilder)(nil)

// ZipBuilder implementa report.Archiver.
type ZipBuilder struct {
	now func() time.Time
}

// NewZipBuilder construye el empaquetador.
func NewZipBuilder() *ZipBuilder {
	return &ZipBuilder{now: time.Now}
}

// unsafeName caracteres no permitidos en nombres de entrada.
var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Bundle crea un ZIP con una entrada por archivo, en el orden recibido.
// Los nombres repetidos o vacíos son un error.
func (z *ZipBuilder) Bundle(_ context.Context, files []report.File) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("zip: sin archivos")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		name := unsafeName.ReplaceAllString(f.Name, "_")
		if name == "" || seen[name] {
			return nil, fmt.Errorf("zip: nombre de entrada inválido o repetido %q", f.Name)
		}
		seen[name] = true

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: z.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
