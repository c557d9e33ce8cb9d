package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgvr/sgvr/internal/auth"
	"github.com/sgvr/sgvr/internal/documents"
	httpmw "github.com/sgvr/sgvr/internal/http"
	"github.com/sgvr/sgvr/internal/http/handlers"
	"github.com/sgvr/sgvr/internal/tokens"
)

// Deps bundles the components the HTTP surface is built from.
type Deps struct {
	Store         *auth.CredentialStore
	Authenticator *auth.Authenticator
	Resolver      *auth.Resolver
	Issuer        *tokens.Issuer
	Registry      *documents.Registry
	Provisioner   *documents.Provisioner

	UploadRoot string
}

// NewRouter builds the gin engine with all routes and middleware attached.
// Record CRUD and report collaborators mount their groups behind
// RequirePermission the same way the provisioning endpoint does here.
func NewRouter(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), httpmw.SecurityHeadersMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(deps.Store, deps.Issuer, deps.Resolver)
	documentHandler := handlers.NewDocumentHandler(deps.Registry, deps.Authenticator, deps.UploadRoot)
	provisionHandler := handlers.NewProvisionHandler(deps.Provisioner)

	engine.POST("/api/auth/login", authHandler.Login)

	// Document delivery authenticates inside the handler: a scoped token in
	// the query string must work without any principal headers present.
	engine.GET("/api/documents/view", documentHandler.View)

	authed := engine.Group("/api", httpmw.AuthMiddleware(deps.Authenticator))
	authed.GET("/auth/me", authHandler.Me)

	admin := authed.Group("", httpmw.RequirePermission(deps.Resolver, auth.PermissionGerenciarUsuarios))
	admin.POST("/admin/provision", provisionHandler.Run)

	return engine
}
