package helper

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Ekstensi gambar yang boleh diupload.
var AllowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// IsImageFile: nama harus punya '.' dan ekstensi terakhir ada di AllowedImageExtensions.
func IsImageFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return AllowedImageExtensions[strings.ToLower(filename[i+1:])]
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename membuat nama file aman untuk object key:
// ASCII saja, separator path jadi spasi, karakter lain jadi '_', tanpa titik/underscore di depan.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	ascii := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 128 {
			ascii = append(ascii, r)
		}
	}
	s := string(ascii)
	s = strings.NewReplacer("/", " ", "\\", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")
	if s == "" {
		return "file"
	}
	return s
}
