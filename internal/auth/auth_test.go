package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sgvr/sgvr/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.User{}, &models.Role{}, &models.RoleAssignment{}, &models.Document{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, user models.User) models.User {
	t.Helper()
	if user.Permissions == nil {
		user.Permissions = datatypes.JSON([]byte("[]"))
	}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	return user
}

func assignRole(t *testing.T, conn *gorm.DB, userID uint64, roleName string, principalType string) {
	t.Helper()
	var role models.Role
	errFind := conn.Where("name = ?", roleName).First(&role).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		role = models.Role{Name: roleName}
		if errCreate := conn.Create(&role).Error; errCreate != nil {
			t.Fatalf("create role: %v", errCreate)
		}
	} else if errFind != nil {
		t.Fatalf("find role: %v", errFind)
	}
	assignment := models.RoleAssignment{
		RoleID:        role.ID,
		PrincipalID:   userID,
		PrincipalType: principalType,
	}
	if errCreate := conn.Create(&assignment).Error; errCreate != nil {
		t.Fatalf("create role assignment: %v", errCreate)
	}
}

func stringPtr(s string) *string { return &s }

func TestAuthenticateSamePrincipalFromBothHeaders(t *testing.T) {
	conn := openAuthTestDB(t)
	user := createUser(t, conn, models.User{
		Username:    "maria",
		Name:        "Maria",
		Password:    "x",
		NivelAcesso: models.NivelOperador,
		Status:      models.StatusActive,
		APIToken:    stringPtr("sgvr_token_maria"),
	})

	authenticator := NewAuthenticator(NewCredentialStore(conn, nil), true)

	bearer := http.Header{}
	bearer.Set("Authorization", "Bearer sgvr_token_maria")
	viaBearer, errBearer := authenticator.Authenticate(context.Background(), bearer)
	if errBearer != nil {
		t.Fatalf("bearer auth: %v", errBearer)
	}

	apiKey := http.Header{}
	apiKey.Set("X-API-Key", "sgvr_token_maria")
	viaAPIKey, errAPIKey := authenticator.Authenticate(context.Background(), apiKey)
	if errAPIKey != nil {
		t.Fatalf("x-api-key auth: %v", errAPIKey)
	}

	if viaBearer.ID != user.ID || viaAPIKey.ID != user.ID {
		t.Fatalf("expected user %d from both transports, got %d and %d", user.ID, viaBearer.ID, viaAPIKey.ID)
	}
}

func TestAuthenticateInactiveAndUnknownAreIdentical(t *testing.T) {
	conn := openAuthTestDB(t)
	createUser(t, conn, models.User{
		Username:    "inativo",
		Name:        "Inativo",
		Password:    "x",
		NivelAcesso: models.NivelOperador,
		Status:      "suspended",
		APIToken:    stringPtr("sgvr_token_inactive"),
	})

	authenticator := NewAuthenticator(NewCredentialStore(conn, nil), true)

	for _, token := range []string{"sgvr_token_inactive", "sgvr_token_never_issued"} {
		headers := http.Header{}
		headers.Set("Authorization", "Bearer "+token)
		_, errAuth := authenticator.Authenticate(context.Background(), headers)
		if !errors.Is(errAuth, ErrInvalidCredential) {
			t.Fatalf("expected ErrInvalidCredential, got %v", errAuth)
		}
	}
}

func TestAuthenticateNoCredentials(t *testing.T) {
	conn := openAuthTestDB(t)
	authenticator := NewAuthenticator(NewCredentialStore(conn, nil), true)

	_, errAuth := authenticator.Authenticate(context.Background(), http.Header{})
	if !errors.Is(errAuth, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", errAuth)
	}
}

func TestFindByTokenExactMatch(t *testing.T) {
	conn := openAuthTestDB(t)
	createUser(t, conn, models.User{
		Username:    "exact",
		Name:        "Exact",
		Password:    "x",
		NivelAcesso: models.NivelOperador,
		Status:      models.StatusActive,
		APIToken:    stringPtr("sgvr_CaseSensitive"),
	})

	store := NewCredentialStore(conn, nil)
	if _, errFind := store.FindByToken(context.Background(), "sgvr_CaseSensitive"); errFind != nil {
		t.Fatalf("exact token must resolve: %v", errFind)
	}
	if _, errFind := store.FindByToken(context.Background(), "sgvr_casesensitive"); !errors.Is(errFind, ErrInvalidCredential) {
		t.Fatalf("case-variant token must not resolve, got %v", errFind)
	}
	if _, errFind := store.FindByToken(context.Background(), ""); !errors.Is(errFind, ErrInvalidCredential) {
		t.Fatalf("empty token must not resolve, got %v", errFind)
	}
}
