// file: internals/helpers/oss/multipartx.go
package helper

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Nama-nama field umum untuk upload gambar
var DefaultImageFields = []string{"file", "image", "cover", "photo"}

// IsMultipart menilai request multipart/form-data
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// PickFile mencari file dengan prioritas beberapa key, lalu fallback ke file pertama.
// Tidak ada file → nil.
func PickFile(form *multipart.Form, keys ...string) *multipart.FileHeader {
	if form == nil || form.File == nil {
		return nil
	}
	if len(keys) == 0 {
		keys = DefaultImageFields
	}
	for _, k := range keys {
		if arr := form.File[k]; len(arr) > 0 && arr[0] != nil && arr[0].Filename != "" {
			return arr[0]
		}
	}
	for _, arr := range form.File {
		if len(arr) > 0 && arr[0] != nil && arr[0].Filename != "" {
			return arr[0]
		}
	}
	return nil
}

// FormValue: nilai pertama field form (trim), "" kalau tidak ada.
func FormValue(form *multipart.Form, keys ...string) string {
	if form == nil {
		return ""
	}
	for _, k := range keys {
		if vs := form.Value[k]; len(vs) > 0 {
			if v := strings.TrimSpace(vs[0]); v != "" {
				return v
			}
		}
	}
	return ""
}
