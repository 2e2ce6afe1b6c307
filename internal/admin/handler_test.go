package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/bootstrap"
	"lexibox-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		UploadDir:       t.TempDir(),
		TokenTTL:        time.Minute,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// signupAdmin registers a user and promotes it directly through the repo,
// since no HTTP route can mint the first admin.
func signupAdmin(t *testing.T, app *bootstrap.App, email string) string {
	t.Helper()
	token := signupUser(t, app, email)

	user, err := app.UsersRepo.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if _, err := app.UsersRepo.SetAdmin(context.Background(), user.ID, true); err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	return token
}

func signupUser(t *testing.T, app *bootstrap.App, email string) string {
	t.Helper()
	resp := doJSON(t, app.Router, http.MethodPost, "/auth/signup", "", gin.H{
		"name":     "User",
		"email":    email,
		"password": "secret1",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, resp.Code, resp.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	return body.AccessToken
}

func TestAdminStats(t *testing.T) {
	app := newTestApp(t)
	adminToken := signupAdmin(t, app, "admin@example.com")
	signupUser(t, app, "user@example.com")

	resp := doJSON(t, app.Router, http.MethodGet, "/admin/stats", adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var stats struct {
		TotalUsers              int     `json:"total_users"`
		TotalDocuments          int     `json:"total_documents"`
		AdminUsers              int     `json:"admin_users"`
		AverageDocumentsPerUser float64 `json:"average_documents_per_user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.AdminUsers != 1 || stats.TotalDocuments != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAdminRoutesForbiddenForPlainUsers(t *testing.T) {
	app := newTestApp(t)
	token := signupUser(t, app, "user@example.com")

	for _, path := range []string{"/admin/users", "/admin/documents", "/admin/stats", "/admin/organizations"} {
		resp := doJSON(t, app.Router, http.MethodGet, path, token, nil)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, resp.Code)
		}
	}
}

func TestAdminToggleAndDeleteUser(t *testing.T) {
	app := newTestApp(t)
	adminToken := signupAdmin(t, app, "admin@example.com")
	signupUser(t, app, "user@example.com")

	target, err := app.UsersRepo.GetByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("load target: %v", err)
	}

	resp := doJSON(t, app.Router, http.MethodPut, "/admin/users/"+target.ID+"/admin", adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var toggled struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&toggled); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if !toggled.IsAdmin {
		t.Fatalf("expected admin granted")
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/"+target.ID, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app := newTestApp(t)
	adminToken := signupAdmin(t, app, "admin@example.com")

	self, err := app.UsersRepo.GetByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/"+self.ID, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self delete, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminDeleteOrganization(t *testing.T) {
	app := newTestApp(t)
	adminToken := signupAdmin(t, app, "admin@example.com")

	// Org founder and their data.
	resp := doJSON(t, app.Router, http.MethodPost, "/auth/signup", "", gin.H{
		"name":              "Founder",
		"email":             "founder@example.com",
		"password":          "secret1",
		"organization_name": "Acme",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("founder signup: expected 201, got %d", resp.Code)
	}
	var founder struct {
		User struct {
			ID             string  `json:"id"`
			OrganizationID *string `json:"organization_id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&founder); err != nil {
		t.Fatalf("decode founder: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/organizations/"+*founder.User.OrganizationID, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete org: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The founder went with the organization.
	if _, err := app.UsersRepo.GetByID(context.Background(), founder.User.ID); err == nil {
		t.Fatalf("expected founder deleted with organization")
	}
}
