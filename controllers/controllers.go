package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"

	"github.com/blogem/usermgmt/authenticator"
	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/repositories"
	"github.com/blogem/usermgmt/services"
	"github.com/blogem/usermgmt/userctx"
)

const flashKey = "flash"

// Renderer holds one parsed template set per page
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses layout.html together with every other page in fsys
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		if file == "layout.html" {
			continue
		}
		tmpl, err := template.New(file).Funcs(funcs).ParseFS(fsys, "layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		pages[strings.TrimSuffix(file, ".html")] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render executes page within the layout and writes it with statusCode.
// Nothing is written to w if execution fails.
func (rd *Renderer) Render(w http.ResponseWriter, statusCode int, page string, data models.PageData) error {
	tmpl, ok := rd.pages[page]
	if !ok {
		http.Error(w, "Unknown page "+page, http.StatusInternalServerError)
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)
	return err
}

// base carries what every page controller needs
type base struct {
	services *services.Services
	renderer *Renderer
	logger   *slog.Logger
}

// render wraps data in the layout with the pending flash message and operator
func (b *base) render(w http.ResponseWriter, r *http.Request, statusCode int, page, title, current string, data interface{}) {
	pageData := models.PageData{
		Title:        title,
		CurrentPage:  current,
		FlashMessage: popFlash(r),
		Data:         data,
	}
	if _, ok := userctx.GetOperator(r.Context()); ok {
		pageData.User = userctx.OperatorName(r.Context())
	}

	if err := b.renderer.Render(w, statusCode, page, pageData); err != nil {
		b.logger.ErrorContext(r.Context(), "failed to render page", slog.String("page", page), slog.Any("error", err))
	}
}

// fail maps a service error to a response: not found is 404, anything else 500
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.notFound(w, r, what)
		return
	}

	b.logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	b.render(w, r, http.StatusInternalServerError, "error", "Something went wrong", "", "An unexpected error occurred. Please try again.")
}

func (b *base) notFound(w http.ResponseWriter, r *http.Request, what string) {
	b.render(w, r, http.StatusNotFound, "error", "Not found", "", what+" not found.")
}

// idParam parses a numeric route parameter
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// setFlash stores a message shown on the next rendered page
func setFlash(r *http.Request, kind, message string) {
	if sess := session.GetSession(r); sess != nil {
		sess.Set(flashKey, models.FlashMessage{Type: kind, Message: message})
	}
}

func popFlash(r *http.Request) *models.FlashMessage {
	sess := session.GetSession(r)
	if sess == nil {
		return nil
	}
	flash, ok := sess.Get(flashKey).(models.FlashMessage)
	if !ok {
		return nil
	}
	sess.Delete(flashKey)
	return &flash
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
	Users     *UserController
	Logs      *LogController
}

// NewControllers creates and initializes all controller instances.
// provider may be nil, in which case Auth is nil and login is disabled.
func NewControllers(services *services.Services, renderer *Renderer, logger *slog.Logger, provider authenticator.Provider) *Controllers {
	b := &base{services: services, renderer: renderer, logger: logger}

	ctrl := &Controllers{
		Dashboard: NewDashboardController(b),
		Users:     NewUserController(b),
		Logs:      NewLogController(b),
	}
	if provider != nil {
		ctrl.Auth = NewAuthController(provider, logger)
	}
	return ctrl
}
