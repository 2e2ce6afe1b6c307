package orgs_test

import (
	"bytes"
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

type signupResult struct {
	Token  string
	UserID string
	OrgID  string
}

func signup(t *testing.T, router *gin.Engine, email, orgName string) signupResult {
	t.Helper()
	payload := gin.H{
		"name":     "User",
		"email":    email,
		"password": "secret1",
	}
	if orgName != "" {
		payload["organization_name"] = orgName
	}
	resp := doJSON(t, router, http.MethodPost, "/auth/signup", "", payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, resp.Code, resp.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID             string  `json:"id"`
			OrganizationID *string `json:"organization_id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	out := signupResult{Token: body.AccessToken, UserID: body.User.ID}
	if body.User.OrganizationID != nil {
		out.OrgID = *body.User.OrganizationID
	}
	return out
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

func TestInvitationFlow(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	admin := signup(t, router, "admin@example.com", "Acme")
	joiner := signup(t, router, "joiner@example.com", "")

	// Invite the joiner.
	resp := doJSON(t, router, http.MethodPost, "/org/invite", admin.Token, gin.H{
		"email":           "joiner@example.com",
		"organization_id": admin.OrgID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("invite: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var invite struct {
		ID       string `json:"id"`
		Accepted bool   `json:"accepted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&invite); err != nil {
		t.Fatalf("decode invite: %v", err)
	}
	if invite.Accepted {
		t.Fatalf("new invitation must be pending")
	}

	// The pending invitation shows up for the org admin.
	resp = doJSON(t, router, http.MethodGet, "/org/invites", admin.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list invites: expected 200, got %d", resp.Code)
	}
	var invites []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&invites); err != nil {
		t.Fatalf("decode invites: %v", err)
	}
	if len(invites) != 1 || invites[0].ID != invite.ID {
		t.Fatalf("expected pending invite %s, got %+v", invite.ID, invites)
	}

	// Accept joins as a plain member.
	resp = doJSON(t, router, http.MethodPost, "/org/accept-invite/"+invite.ID, joiner.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var joined struct {
		OrganizationID *string `json:"organization_id"`
		IsOrgAdmin     bool    `json:"is_org_admin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&joined); err != nil {
		t.Fatalf("decode accept: %v", err)
	}
	if joined.OrganizationID == nil || *joined.OrganizationID != admin.OrgID {
		t.Fatalf("expected membership in %s, got %v", admin.OrgID, joined.OrganizationID)
	}
	if joined.IsOrgAdmin {
		t.Fatalf("accepting an invitation must not grant org admin")
	}

	// A second accept reads as missing.
	resp = doJSON(t, router, http.MethodPost, "/org/accept-invite/"+invite.ID, joiner.Token, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second accept: expected 404, got %d", resp.Code)
	}

	// Both users are now listed as members.
	resp = doJSON(t, router, http.MethodGet, "/org/users", admin.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list members: expected 200, got %d", resp.Code)
	}
	var members []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestMyOrganizationShowsOwner(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	admin := signup(t, router, "admin@example.com", "Acme")

	resp := doJSON(t, router, http.MethodGet, "/org/me", admin.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("org me: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var org struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Owner *struct {
			ID string `json:"id"`
		} `json:"owner"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&org); err != nil {
		t.Fatalf("decode org: %v", err)
	}
	if org.Name != "Acme" || org.ID != admin.OrgID {
		t.Fatalf("unexpected organization: %+v", org)
	}
	if org.Owner == nil || org.Owner.ID != admin.UserID {
		t.Fatalf("expected owner %s, got %+v", admin.UserID, org.Owner)
	}
}

func TestMyOrganizationWithoutOrg(t *testing.T) {
	app := newTestApp(t)
	loner := signup(t, app.Router, "loner@example.com", "")

	resp := doJSON(t, app.Router, http.MethodGet, "/org/me", loner.Token, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrgRoutesForbiddenForPlainMembers(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	admin := signup(t, router, "admin@example.com", "Acme")
	loner := signup(t, router, "loner@example.com", "")

	resp := doJSON(t, router, http.MethodGet, "/org/users", loner.Token, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("list members: expected 403, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/org/invite", loner.Token, gin.H{
		"email":           "x@example.com",
		"organization_id": admin.OrgID,
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("invite: expected 403, got %d", resp.Code)
	}
}

func TestRemoveSelfFromOrg(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	admin := signup(t, router, "admin@example.com", "Acme")

	req := httptest.NewRequest(http.MethodDelete, "/org/users/"+admin.UserID, nil)
	req.Header.Set("Authorization", "Bearer "+admin.Token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self removal, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error.Code != "invalid_operation" {
		t.Fatalf("expected code invalid_operation, got %s", body.Error.Code)
	}
}
