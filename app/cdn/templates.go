package cdn

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrymomot/simplecdn/core/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type crumb struct {
	Name string
	Path string
}

type browsePage struct {
	AppName       string
	Current       string
	Crumbs        []crumb
	Dirs          []storage.DirEntry
	Files         []storage.FileEntry
	Accept        string
	MaxUploadSize int64
}

func parsePages() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"browseURL":   browseURL,
		"cdnURL":      cdnURL,
		"downloadURL": downloadURL,
		"qrURL":       qrURL,
		"humanSize":   humanSize,
	}).ParseFS(templateFS, "templates/*.html")
}

// breadcrumbs splits rel into clickable ancestors, root first.
func breadcrumbs(rel string) []crumb {
	out := []crumb{{Name: "root", Path: ""}}
	if rel == "" {
		return out
	}
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		out = append(out, crumb{Name: p, Path: strings.Join(parts[:i+1], "/")})
	}
	return out
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
