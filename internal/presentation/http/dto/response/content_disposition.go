package response

import (
	"mime"
	"strings"
)

// ContentDisposition builds an attachment header. Non-ASCII names get an
// RFC 2231 filename* parameter next to an ASCII fallback.
func ContentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	header := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	switch {
	case header == "":
		return `attachment; filename="` + fallback + `"`
	case strings.Contains(header, "filename*="):
		return `attachment; filename="` + fallback + `"; ` + strings.TrimPrefix(header, "attachment; ")
	}
	return header
}
