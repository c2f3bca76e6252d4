package pdf

import (
	"encoding/base64"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// decodeDataURL decodifica una firma "data:image/png;base64,..." (también jpeg).
// Devuelve ok=false si el valor no es una imagen base64 soportada.
func decodeDataURL(s string) ([]byte, extension.Type, bool) {
	header, payload, found := strings.Cut(s, ",")
	if !found || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, "", false
	}
	var ext extension.Type
	switch strings.TrimSuffix(strings.TrimPrefix(header, "data:image/"), ";base64") {
	case "png":
		ext = extension.Png
	case "jpeg", "jpg":
		ext = extension.Jpg
	default:
		return nil, "", false
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(b) == 0 {
		return nil, "", false
	}
	return b, ext, true
}
