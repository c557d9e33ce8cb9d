package handlers

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgvr/sgvr/internal/auth"
	"github.com/sgvr/sgvr/internal/documents"
	httpmw "github.com/sgvr/sgvr/internal/http"
	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
)

// DocumentHandler serves protected document bytes.
type DocumentHandler struct {
	registry      *documents.Registry
	authenticator *auth.Authenticator

	uploadRoot string
}

// NewDocumentHandler constructs a DocumentHandler.
func NewDocumentHandler(registry *documents.Registry, authenticator *auth.Authenticator, uploadRoot string) *DocumentHandler {
	return &DocumentHandler{
		registry:      registry,
		authenticator: authenticator,
		uploadRoot:    uploadRoot,
	}
}

// View delivers a document identified by the id query parameter. Access is
// granted by a matching scoped token in the token query parameter, or by a
// primary principal presented in the headers. A row whose underlying file
// is missing yields a successful informational page, distinct from the 404
// of a row that does not exist.
func (h *DocumentHandler) View(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Query("id")), 10, 64)
	if errParse != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	if !h.authorizeView(c, id) {
		return
	}

	document, errFind := h.registry.FindByID(c.Request.Context(), id)
	if errFind != nil {
		respondError(c, http.StatusNotFound, "document not found")
		return
	}

	h.serve(c, document)
}

// authorizeView checks the scoped token first and falls back to header
// authentication. A scoped token only grants the document it is bound to;
// a wrong or foreign token falls through to the principal path.
func (h *DocumentHandler) authorizeView(c *gin.Context, id uint64) bool {
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		scoped, errFind := h.registry.FindByToken(c.Request.Context(), token)
		if errFind == nil && scoped.ID == id {
			return true
		}
	}

	user, errAuth := h.authenticator.Authenticate(c.Request.Context(), c.Request.Header)
	if errAuth != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		c.Abort()
		return false
	}
	httpmw.SetPrincipal(c, user)
	return true
}

// serve streams the document bytes, or the degraded page when the file is
// missing.
func (h *DocumentHandler) serve(c *gin.Context, document *models.Document) {
	path, errResolve := documents.ResolvePath(h.uploadRoot, document.FilePath)
	if errResolve != nil {
		log.WithError(errResolve).WithField("document_id", document.ID).Warn("document path rejected")
		h.serveDegraded(c, document)
		return
	}

	file, errOpen := os.Open(path)
	if errOpen != nil {
		if !os.IsNotExist(errOpen) {
			log.WithError(errOpen).WithField("document_id", document.ID).Warn("document file unreadable")
		}
		h.serveDegraded(c, document)
		return
	}
	defer func() { _ = file.Close() }()

	info, errStat := file.Stat()
	if errStat != nil || info.IsDir() {
		h.serveDegraded(c, document)
		return
	}

	// This response is intentionally embeddable inside the application's
	// own viewer frame; drop the global framing restriction for it.
	c.Writer.Header().Del("X-Frame-Options")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", dispositionFilename(document.Description)))
	c.Header("Cache-Control", "private, no-store")

	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}

// serveDegraded renders the informational page for a document whose
// metadata exists but whose bytes are unavailable. Deliberately HTTP 200:
// the row is authoritative and the missing file is a recoverable
// operational condition, not a lookup failure.
func (h *DocumentHandler) serveDegraded(c *gin.Context, document *models.Document) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>Documento indisponível</title></head>
<body>
<h1>Documento indisponível</h1>
<p>O documento <strong>%s</strong> está registrado, mas o arquivo não está disponível no momento.</p>
</body>
</html>
`, html.EscapeString(document.Description))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// dispositionFilename sanitizes a description for a quoted filename value.
func dispositionFilename(description string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, description)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "documento.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(cleaned), ".pdf") {
		cleaned += ".pdf"
	}
	return cleaned
}
