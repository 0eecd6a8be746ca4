package cdn

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/logger"
	"github.com/dmitrymomot/simplecdn/core/response"
	"github.com/dmitrymomot/simplecdn/core/storage"
	"github.com/dmitrymomot/simplecdn/pkg/qrcode"
)

// multipartMemory is the part of an upload kept in memory while parsing;
// the rest is spooled to a temporary file by mime/multipart.
const multipartMemory = 1 << 20

type uploadResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

type qrResult struct {
	URL   string `json:"url"`
	Image string `json:"image"`
}

type listing struct {
	Current string              `json:"current"`
	Dirs    []storage.DirEntry  `json:"dirs"`
	Files   []storage.FileEntry `json:"files"`
}

func (a *App) index(ctx *Context) handler.Response {
	return a.renderListing(ctx, "")
}

func (a *App) browse(ctx *Context) handler.Response {
	return a.renderListing(ctx, ctx.PathParam())
}

func (a *App) renderListing(ctx *Context, rel string) handler.Response {
	dirs, files, err := a.store.List(rel)
	if err != nil {
		return response.Error(err)
	}
	if dirs == nil {
		dirs = []storage.DirEntry{}
	}
	if files == nil {
		files = []storage.FileEntry{}
	}

	if response.WantsJSON(ctx.Request()) {
		return response.JSON(listing{Current: rel, Dirs: dirs, Files: files})
	}

	return response.TemplateName(a.pages, "browse.html", browsePage{
		AppName:       a.config.AppName,
		Current:       rel,
		Crumbs:        breadcrumbs(rel),
		Dirs:          dirs,
		Files:         files,
		Accept:        a.validator.Accept(),
		MaxUploadSize: a.config.MaxUploadSize,
	})
}

func (a *App) upload(ctx *Context) handler.Response {
	r := ctx.Request()
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return response.Error(err)
		}
		return response.Error(response.ErrBadRequest.WithMessage("invalid multipart form"))
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	dir := strings.Trim(r.PostFormValue("dir"), "/")
	if strings.Contains(dir, "..") {
		return response.Error(response.ErrBadRequest.WithMessage("invalid dir"))
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return response.Error(response.ErrBadRequest.WithMessage("file is required"))
	}
	defer func() { _ = file.Close() }()

	body, err := a.validator.Wrap(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		return response.Error(err)
	}

	saved, err := a.store.SaveFile(ctx, dir, header.Filename, body)
	if err != nil {
		return response.Error(err)
	}

	a.logger.InfoContext(ctx, "file uploaded",
		logger.Component("cdn"),
		logger.Action("upload"),
		logger.FilePath(saved),
		logger.Size(header.Size),
	)

	return response.JSON(uploadResult{Status: "ok", Path: saved, URL: cdnURL(saved)})
}

func (a *App) mkdir(ctx *Context) handler.Response {
	r := ctx.Request()
	base := strings.Trim(r.PostFormValue("base_dir"), "/")
	name := strings.TrimSpace(r.PostFormValue("new_dir"))
	if name == "" {
		return response.Error(response.ErrBadRequest.WithMessage("directory name is required"))
	}

	full := strings.Trim(path.Join(base, name), "/")
	if err := a.store.MakeDir(ctx, full); err != nil {
		return response.Error(err)
	}

	a.logger.InfoContext(ctx, "directory created",
		logger.Component("cdn"),
		logger.Action("mkdir"),
		logger.FilePath(full),
	)

	return response.RedirectSeeOther(browseURL(base))
}

func (a *App) remove(ctx *Context) handler.Response {
	target := strings.Trim(ctx.Request().PostFormValue("path"), "/")
	if strings.Contains(target, "..") {
		return response.Error(response.ErrBadRequest.WithMessage("invalid path"))
	}

	deleted, err := a.store.DeletePath(ctx, target)
	if err != nil {
		return response.Error(err)
	}
	if !deleted {
		return response.Error(response.ErrNotFound.WithMessage("not found"))
	}

	a.logger.InfoContext(ctx, "path deleted",
		logger.Component("cdn"),
		logger.Action("delete"),
		logger.FilePath(target),
	)

	return response.RedirectSeeOther(browseURL(parentDir(target)))
}

func (a *App) download(ctx *Context) handler.Response {
	f, info, err := a.store.Open(ctx.PathParam())
	if err != nil {
		return response.Error(err)
	}

	resp := response.Download(f, info.Name(), info.ModTime())
	return func(w http.ResponseWriter, r *http.Request) error {
		defer func() { _ = f.Close() }()
		return resp(w, r)
	}
}

func (a *App) qr(ctx *Context) handler.Response {
	rel := ctx.PathParam()
	info, err := a.store.Stat(rel)
	if err != nil {
		return response.Error(err)
	}
	if info.IsDir() {
		return response.Error(response.ErrNotFound)
	}

	size := qrcode.DefaultSize
	if raw := ctx.Request().URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return response.Error(response.ErrBadRequest.WithMessage("invalid size"))
		}
		size = n
	}

	target := a.publicBaseURL(ctx.Request()) + cdnURL(rel)

	if response.WantsJSON(ctx.Request()) {
		uri, err := qrcode.GenerateBase64Image(target, size)
		if err != nil {
			return response.Error(err)
		}
		return response.JSON(qrResult{URL: target, Image: uri})
	}

	png, err := qrcode.Generate(target, size)
	if err != nil {
		return response.Error(err)
	}
	return response.Bytes(png, "image/png", http.StatusOK)
}

// publicBaseURL is PUBLIC_BASE_URL, or the scheme and host of the request.
func (a *App) publicBaseURL(r *http.Request) string {
	if a.config.PublicBaseURL != "" {
		return strings.TrimSuffix(a.config.PublicBaseURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if a.config.TrustProxyHeaders {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(rel string) string {
	if rel == "" {
		return ""
	}
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func cdnURL(rel string) string {
	return "/cdn/" + escapePath(rel)
}

func browseURL(rel string) string {
	return "/browse/" + escapePath(rel)
}

func downloadURL(rel string) string {
	return "/download/" + escapePath(rel)
}

func qrURL(rel string) string {
	return "/qr/" + escapePath(rel)
}

// parentDir returns the parent of rel, "" for top-level entries.
func parentDir(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
