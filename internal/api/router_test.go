package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/tgoncalves/listly/internal/auth"
	"github.com/tgoncalves/listly/internal/hooks"
	"github.com/tgoncalves/listly/internal/models"
	"github.com/tgoncalves/listly/internal/service"
	"github.com/tgoncalves/listly/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret-key-for-router-tests", time.Hour)
	registry := hooks.NewRegistry(true)
	listSvc := service.NewListService(store, store, registry)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)

	server := httptest.NewServer(NewRouter(NewHandler(listSvc, authSvc), jwtManager, "*"))
	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return server, cleanup
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func registerUser(t *testing.T, baseURL, email string) (userID, token string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL+"/api/v1/auth/register", "", map[string]string{
		"email":       email,
		"displayName": "Test User",
		"password":    "correct-horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	var session struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(t, resp, &session)
	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	return session.User.ID, session.Token
}

func TestRegisterAndLogin(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	registerUser(t, server.URL, "alice@example.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateListOverHTTP(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	ownerID, token := registerUser(t, server.URL, "alice@example.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/lists", token, map[string]any{
		"title":     "Groceries",
		"threshold": "100.00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list: expected 201, got %d", resp.StatusCode)
	}

	var list struct {
		ID             string   `json:"id"`
		OwnerID        string   `json:"ownerId"`
		ParticipantIDs []string `json:"participantIds"`
	}
	decodeBody(t, resp, &list)
	if list.OwnerID != ownerID {
		t.Errorf("owner: expected %s, got %s", ownerID, list.OwnerID)
	}

	// Reading it back shows the post-commit owner enrollment.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/lists/"+list.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get list: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &list)
	if len(list.ParticipantIDs) != 1 || list.ParticipantIDs[0] != ownerID {
		t.Errorf("expected owner enrolled, got %v", list.ParticipantIDs)
	}
}

func TestParticipantEndpointsEnforcePermissions(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	_, ownerToken := registerUser(t, server.URL, "owner@example.com")
	memberID, memberToken := registerUser(t, server.URL, "member@example.com")
	strangerID, _ := registerUser(t, server.URL, "stranger@example.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/lists", ownerToken, map[string]any{"title": "Shared"})
	var list struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &list)

	// Owner adds member.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/lists/"+list.ID+"/participants", ownerToken,
		map[string]string{"userId": memberID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add participant: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Adding twice is a validation failure.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/lists/"+list.ID+"/participants", ownerToken,
		map[string]string{"userId": memberID})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("duplicate add: expected 422, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Plain participant may not manage participants.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/lists/"+list.ID+"/participants", memberToken,
		map[string]string{"userId": strangerID})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("participant add: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// No token at all gets 401.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/lists/"+list.ID+"/participants", "",
		map[string]string{"userId": strangerID})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous add: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthorizedBodyNamesTheReason(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	var body struct {
		Error string `json:"error"`
	}

	// No token at all.
	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/lists", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &body)
	if body.Error != auth.ErrMissingToken.Error() {
		t.Errorf("no token: expected %q, got %q", auth.ErrMissingToken.Error(), body.Error)
	}

	// A token that is present but does not validate.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/lists", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &body)
	if body.Error != auth.ErrInvalidToken.Error() {
		t.Errorf("bad token: expected %q, got %q", auth.ErrInvalidToken.Error(), body.Error)
	}

	// Same for a well-formed but expired token.
	expired := auth.NewJWTManager("test-secret-key-for-router-tests", -time.Hour)
	signed, err := expired.Generate(&models.User{ID: "u1", Email: "expired@example.com"})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/lists", signed, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &body)
	if body.Error != auth.ErrInvalidToken.Error() {
		t.Errorf("expired token: expected %q, got %q", auth.ErrInvalidToken.Error(), body.Error)
	}
}

func TestPublicListVisibleAnonymously(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	_, token := registerUser(t, server.URL, "owner@example.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/lists", token, map[string]any{
		"title":    "Wishlist",
		"isPublic": true,
	})
	var list struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &list)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/lists/"+list.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("anonymous get of public list: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemEndpoints(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	_, token := registerUser(t, server.URL, "owner@example.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/lists", token, map[string]any{
		"title":     "Groceries",
		"threshold": "100.00",
	})
	var list struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &list)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/lists/"+list.ID+"/items", token, map[string]any{
		"name":     "Milk",
		"quantity": 2,
		"value":    "5.00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d", resp.StatusCode)
	}
	var item struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &item)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/lists/"+list.ID, token, nil)
	// decimals marshal as quoted strings
	var got struct {
		Subtotal string `json:"subtotal"`
		Reserve  string `json:"reserve"`
	}
	decodeBody(t, resp, &got)
	if got.Subtotal != "10.00" {
		t.Errorf("subtotal: expected 10.00, got %s", got.Subtotal)
	}
	if got.Reserve != "90.00" {
		t.Errorf("reserve: expected 90.00, got %s", got.Reserve)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/lists/"+list.ID+"/items/remove", token, map[string]any{
		"itemIds": []string{item.ID, "no-such-item"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove items: expected 200, got %d", resp.StatusCode)
	}
	var removed struct {
		Removed bool `json:"removed"`
	}
	decodeBody(t, resp, &removed)
	if removed.Removed {
		t.Error("expected removed=false when an id does not match")
	}
}
