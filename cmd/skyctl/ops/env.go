package ops

import (
	"os"
	"strings"
)

// envLanguage turns LANG=ar_EG.UTF-8 into an Accept-Language value.
func envLanguage() string {
	lang := os.Getenv("LANG")
	if i := strings.IndexByte(lang, '.'); i >= 0 {
		lang = lang[:i]
	}
	return strings.ReplaceAll(lang, "_", "-")
}
