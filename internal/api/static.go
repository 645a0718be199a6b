package api

import (
	_ "embed"
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"esklenchen/server/config"
)

const fallbackName = "fallback.html"

//go:embed fallback.html
var fallbackPage string

var fallbackTemplate = template.Must(template.New(fallbackName).Parse(fallbackPage))

// StaticHandler serves the single-page application bundle.
type StaticHandler struct {
	distDir string
	contact config.ContactInfo
	logger  *logrus.Logger
}

func NewStaticHandler(distDir string, contact config.ContactInfo, logger *logrus.Logger) *StaticHandler {
	return &StaticHandler{
		distDir: distDir,
		contact: contact,
		logger:  logger,
	}
}

func (s *StaticHandler) ServeAsset(c *gin.Context) {
	s.serveFile(c, filepath.Join(s.distDir, "assets"), c.Param("filepath"), "File not found")
}

// ServeDistFile serves a single well-known file from the bundle root.
func (s *StaticHandler) ServeDistFile(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.serveFile(c, s.distDir, name, "Not found")
	}
}

// ServeApp serves index.html, or the built-in landing page when the bundle
// has not been deployed.
func (s *StaticHandler) ServeApp(c *gin.Context) {
	index := filepath.Join(s.distDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		s.logger.WithError(err).Warn("Frontend bundle missing, serving fallback page")
		c.HTML(http.StatusOK, fallbackName, s.contact)
		return
	}
	c.File(index)
}

// NotFound answers unknown API routes with JSON and hands every other GET to
// the client-side router.
func (s *StaticHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint no encontrado"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Método no permitido"})
		return
	}
	s.ServeApp(c)
}

func (s *StaticHandler) serveFile(c *gin.Context, root, name, notFound string) {
	// Cleaning against "/" keeps the result inside root.
	full := filepath.Join(root, filepath.FromSlash(path.Clean("/"+name)))

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("file", full).Error("Error serving static file")
		}
		c.String(http.StatusNotFound, notFound)
		return
	}
	c.File(full)
}
