package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/matatuconnect/backend/internal/db"
	"github.com/matatuconnect/backend/internal/model"
	"github.com/matatuconnect/backend/internal/store"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	server   *httptest.Server
	admin    string
	driver   string
	commuter string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if _, err := store.CreateUser(ctx, database, "Pato", "Admin", "admin", "admin@example.com", string(hash), model.RoleAdmin); err != nil {
		t.Fatalf("creating admin: %v", err)
	}
	if _, err := store.CreateUser(ctx, database, "Otis", "Mwangi", "otis", "otis@example.com", string(hash), model.RoleDriver); err != nil {
		t.Fatalf("creating driver: %v", err)
	}
	if _, err := store.CreateUser(ctx, database, "Akinyi", "Ouma", "akinyi", "akinyi@example.com", string(hash), model.RoleCommuter); err != nil {
		t.Fatalf("creating commuter: %v", err)
	}

	env := &testEnv{server: server}
	env.admin = login(t, server, "admin")
	env.driver = login(t, server, "otis")
	env.commuter = login(t, server, "akinyi")
	return env
}

func login(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s failed: %d", username, resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// reportItem creates a lost item via the multipart endpoint and returns its id.
func reportItem(t *testing.T, env *testEnv) int64 {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("item", "Black backpack")
	mw.WriteField("route", "Route 46 - Kawangware")
	mw.WriteField("sacco", "Super Metro")
	mw.WriteField("found_on", "2026-08-30")
	mw.WriteField("description", "Left under the back seat")
	mw.Close()

	req, _ := http.NewRequest("POST", env.server.URL+"/api/lost-items", &buf)
	req.Header.Set("Authorization", "Bearer "+env.driver)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reporting item: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 reporting item, got %d", resp.StatusCode)
	}

	var item model.LostItem
	json.NewDecoder(resp.Body).Decode(&item)
	if item.ID == 0 {
		t.Fatal("missing item id in response")
	}
	return item.ID
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSignupEndpoint(t *testing.T) {
	env := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"first_name": "Njeri",
		"last_name":  "Kariuki",
		"username":   "njeri",
		"email":      "njeri@example.com",
		"password":   "password123",
		"role":       model.RoleCommuter,
	})
	resp, _ := http.Post(env.server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for signup, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admin accounts cannot be self-registered.
	body, _ = json.Marshal(map[string]string{
		"username": "sneaky",
		"password": "password123",
		"role":     model.RoleAdmin,
	})
	resp, _ = http.Post(env.server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for admin signup, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate usernames are rejected.
	body, _ = json.Marshal(map[string]string{
		"username": "njeri",
		"password": "password123",
		"role":     model.RoleCommuter,
	})
	resp, _ = http.Post(env.server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestClaimWorkflow(t *testing.T) {
	env := setupTestServer(t)
	itemID := reportItem(t, env)

	// Commuter submits a claim.
	req, _ := authRequest("POST", env.server.URL+"/api/claims", env.commuter, map[string]any{
		"lost_item_id": itemID,
		"claimer_name": "Akinyi Ouma",
		"contact_info": "0712345678",
		"details":      "Has a laptop and a blue water bottle inside",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 submitting claim, got %d", resp.StatusCode)
	}
	var claim model.Claim
	json.NewDecoder(resp.Body).Decode(&claim)
	resp.Body.Close()

	// Approval before confirmation is rejected.
	req, _ = authRequest("PUT", env.server.URL+"/api/claims/"+itoa(claim.ID)+"/approve", env.admin, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 approving unconfirmed claim, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Driver confirms.
	req, _ = authRequest("PUT", env.server.URL+"/api/claims/"+itoa(claim.ID)+"/confirm", env.driver, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 confirming claim, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Review queue now contains the claim.
	req, _ = authRequest("GET", env.server.URL+"/api/claims/review", env.admin, nil)
	resp, _ = http.DefaultClient.Do(req)
	var queue []model.Claim
	json.NewDecoder(resp.Body).Decode(&queue)
	resp.Body.Close()
	if len(queue) != 1 || queue[0].ID != claim.ID {
		t.Fatalf("expected claim %d in review queue, got %+v", claim.ID, queue)
	}

	// Admin approves and gets the parent item id back.
	req, _ = authRequest("PUT", env.server.URL+"/api/claims/"+itoa(claim.ID)+"/approve", env.admin, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 approving claim, got %d", resp.StatusCode)
	}
	var approveResp struct {
		Claim      model.Claim `json:"claim"`
		LostItemID int64       `json:"lost_item_id"`
	}
	json.NewDecoder(resp.Body).Decode(&approveResp)
	resp.Body.Close()
	if !approveResp.Claim.Approved {
		t.Error("expected claim to be approved")
	}
	if approveResp.LostItemID != itemID {
		t.Errorf("lost_item_id = %d, want %d", approveResp.LostItemID, itemID)
	}

	// Driver can now remove the resolved report.
	req, _ = authRequest("DELETE", env.server.URL+"/api/lost-items/"+itoa(itemID), env.driver, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 deleting resolved item, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestClaimRoleEnforcement(t *testing.T) {
	env := setupTestServer(t)
	itemID := reportItem(t, env)

	req, _ := authRequest("POST", env.server.URL+"/api/claims", env.commuter, map[string]any{
		"lost_item_id": itemID,
		"claimer_name": "Akinyi Ouma",
		"contact_info": "0712345678",
	})
	resp, _ := http.DefaultClient.Do(req)
	var claim model.Claim
	json.NewDecoder(resp.Body).Decode(&claim)
	resp.Body.Close()

	// Commuters cannot confirm.
	req, _ = authRequest("PUT", env.server.URL+"/api/claims/"+itoa(claim.ID)+"/confirm", env.commuter, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for commuter confirming, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Drivers cannot approve.
	req, _ = authRequest("PUT", env.server.URL+"/api/claims/"+itoa(claim.ID)+"/approve", env.driver, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for driver approving, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Commuters cannot report lost items.
	req, _ = authRequest("POST", env.server.URL+"/api/lost-items", env.commuter, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for commuter reporting, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Drivers cannot delete an unresolved report.
	req, _ = authRequest("DELETE", env.server.URL+"/api/lost-items/"+itoa(itemID), env.driver, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 deleting unresolved item, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admins can.
	req, _ = authRequest("DELETE", env.server.URL+"/api/lost-items/"+itoa(itemID), env.admin, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for admin delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestClaimMalformedID(t *testing.T) {
	env := setupTestServer(t)

	// Non-integer ids are rejected before any storage access.
	for _, tc := range []struct {
		method string
		path   string
		token  string
	}{
		{"PUT", "/api/claims/abc/approve", env.admin},
		{"PUT", "/api/claims/abc/confirm", env.driver},
		{"DELETE", "/api/claims/abc", env.commuter},
		{"DELETE", "/api/lost-items/abc", env.admin},
	} {
		req, _ := authRequest(tc.method, env.server.URL+tc.path, tc.token, nil)
		resp, _ := http.DefaultClient.Do(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400 for malformed id, got %d", tc.method, tc.path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("POST", env.server.URL+"/api/auth/logout", env.commuter, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", env.server.URL+"/api/auth/me", env.commuter, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	env := setupTestServer(t)

	resp, _ := http.Get(env.server.URL + "/api/lost-items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Transit reads stay public.
	resp, _ = http.Get(env.server.URL + "/api/routes")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for public routes, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestServer(t)

	resp, _ := http.Get(env.server.URL + "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for health, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
