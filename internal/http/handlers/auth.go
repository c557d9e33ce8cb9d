package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgvr/sgvr/internal/auth"
	httpmw "github.com/sgvr/sgvr/internal/http"
	"github.com/sgvr/sgvr/internal/security"
	"github.com/sgvr/sgvr/internal/tokens"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles credential issuance and principal introspection.
type AuthHandler struct {
	store    *auth.CredentialStore
	issuer   *tokens.Issuer
	resolver *auth.Resolver
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(store *auth.CredentialStore, issuer *tokens.Issuer, resolver *auth.Resolver) *AuthHandler {
	return &AuthHandler{store: store, issuer: issuer, resolver: resolver}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies a password and (re)issues the user's primary token. The
// previous token stops resolving once the new one is persisted. Unknown
// users, disabled users and wrong passwords all produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		respondError(c, http.StatusBadRequest, "missing username or password")
		return
	}

	user, errFind := h.store.FindByUsername(c.Request.Context(), username)
	if errFind != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !security.CheckPassword(user.Password, password) {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, errIssue := h.issuer.IssuePrimaryToken(c.Request.Context(), user.ID)
	if errIssue != nil {
		log.WithError(errIssue).Error("primary token issuance failed")
		respondError(c, http.StatusInternalServerError, "token issuance failed")
		return
	}

	respondData(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"name":         user.Name,
			"email":        user.Email,
			"nivel_acesso": user.NivelAcesso,
		},
	})
}

// Me returns the authenticated principal's profile and effective permissions.
func (h *AuthHandler) Me(c *gin.Context) {
	user := httpmw.PrincipalFromContext(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "missing credentials")
		return
	}

	respondData(c, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"name":         user.Name,
		"email":        user.Email,
		"nivel_acesso": user.NivelAcesso,
		"permissions":  h.resolver.EffectivePermissions(c.Request.Context(), user),
	})
}
