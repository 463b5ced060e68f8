package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkolar/stockroom/internal/db"
	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

const (
	testSecret   = "test-secret"
	testEmail    = "tester@example.com"
	testPassword = "correct horse"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
	user   *model.User
	token  string
}

// newTestAPI spins up the full router over a fresh database, seeds one
// user, and logs it in over HTTP.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	database := db.NewTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), database, "Tester", testEmail, string(hash))
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(database, testSecret))
	t.Cleanup(server.Close)

	a := &testAPI{t: t, server: server, user: user}

	status, body := a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	a.token = resp.Token

	return a
}

// do sends a JSON request with the session token and returns the status
// and raw body.
func (a *testAPI) do(method, path string, body any) (int, []byte) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, data
}

// createWorkspace makes a workspace over the API and returns its id.
func (a *testAPI) createWorkspace(name string) string {
	a.t.Helper()

	status, body := a.do(http.MethodPost, "/api/workspace", map[string]string{
		"name":   name,
		"userId": a.user.ID,
	})
	require.Equal(a.t, http.StatusOK, status)

	var workspace model.Workspace
	require.NoError(a.t, json.Unmarshal(body, &workspace))
	require.NotEmpty(a.t, workspace.ID)
	return workspace.ID
}

func TestLoginFailures(t *testing.T) {
	a := newTestAPI(t)
	a.token = ""

	status, body := a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": testEmail,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"message":"Invalid body"}`, string(body))

	status, _ = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthRequired(t *testing.T) {
	a := newTestAPI(t)

	a.token = ""
	status, _ := a.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	a.token = "garbage"
	status, _ = a.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	a := newTestAPI(t)

	status, _ := a.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChangePassword(t *testing.T) {
	a := newTestAPI(t)

	status, _ := a.do(http.MethodPut, "/api/auth/password", map[string]string{
		"current_password": "wrong",
		"new_password":     "next",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(http.MethodPut, "/api/auth/password", map[string]string{
		"current_password": testPassword,
		"new_password":     "next",
	})
	require.Equal(t, http.StatusOK, status)

	// Old password no longer works; new one does.
	a.token = ""
	status, _ = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": "next",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestIAMLogin(t *testing.T) {
	a := newTestAPI(t)
	workspaceID := a.createWorkspace("Shop")

	status, _ := a.do(http.MethodPost, "/api/iam", map[string]string{
		"workspaceId": workspaceID,
		"password":    "shop-secret",
		"tag":         "counter tablet",
		"role":        model.IAMRoleAdmin,
	})
	require.Equal(t, http.StatusOK, status)

	a.token = ""
	status, body := a.do(http.MethodPost, "/api/auth/iam", map[string]string{
		"workspaceId": workspaceID,
		"password":    "shop-secret",
	})
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)

	// The workspace token is a full session.
	a.token = resp.Token
	status, _ = a.do(http.MethodGet, "/api/item", nil)
	assert.Equal(t, http.StatusOK, status)

	a.token = ""
	status, _ = a.do(http.MethodPost, "/api/auth/iam", map[string]string{
		"workspaceId": workspaceID,
		"password":    "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLocationEndpoints(t *testing.T) {
	a := newTestAPI(t)
	workspaceID := a.createWorkspace("Garage")

	// Missing workspaceId fails validation.
	status, body := a.do(http.MethodPost, "/api/location", map[string]any{
		"name": "Shelf",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"message":"Invalid body"}`, string(body))

	// Filter before anything exists: empty means 404.
	status, body = a.do(http.MethodGet, "/api/location/workspace/"+workspaceID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, body)

	status, body = a.do(http.MethodPost, "/api/location", map[string]any{
		"workspaceId": workspaceID,
		"name":        "Shelf",
		"address":     "Basement",
		"latitude":    46.05,
	})
	require.Equal(t, http.StatusOK, status)

	var location model.Location
	require.NoError(t, json.Unmarshal(body, &location))
	assert.NotEmpty(t, location.ID)
	assert.Equal(t, "Shelf", location.Name)
	require.NotNil(t, location.Latitude)

	status, body = a.do(http.MethodGet, "/api/location/"+location.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/api/location/workspace/"+workspaceID, nil)
	require.Equal(t, http.StatusOK, status)
	var locations []model.Location
	require.NoError(t, json.Unmarshal(body, &locations))
	assert.Len(t, locations, 1)

	status, body = a.do(http.MethodPut, "/api/location/"+location.ID, map[string]any{
		"name": "Rack",
	})
	require.Equal(t, http.StatusOK, status)
	var updated model.Location
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Rack", updated.Name)
	assert.Equal(t, "Basement", updated.Address)

	// Delete returns the record once; the second attempt finds nothing.
	status, _ = a.do(http.MethodDelete, "/api/location/"+location.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = a.do(http.MethodDelete, "/api/location/"+location.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, body)
}

func TestGetUnknownIDIsEmpty404(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/type/unknown-id",
		"/api/location/unknown-id",
		"/api/category/unknown-id",
		"/api/item/unknown-id",
		"/api/workspace/unknown-id",
		"/api/iam/unknown-id",
		"/api/user/unknown-id",
	} {
		status, body := a.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Empty(t, body, path)
	}
}

func TestEmptyListsAre200(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/workspace",
		"/api/iam",
		"/api/category",
		"/api/location",
		"/api/type",
		"/api/item",
	} {
		status, body := a.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.JSONEq(t, "[]", string(body), path)
	}
}

func TestTypeEndpoints(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodPost, "/api/type", map[string]string{"name": "Tool"})
	require.Equal(t, http.StatusOK, status)
	var itemType model.ItemType
	require.NoError(t, json.Unmarshal(body, &itemType))

	status, _ = a.do(http.MethodPut, "/api/type/"+itemType.ID, map[string]string{"name": "Hand tool"})
	require.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/api/type/"+itemType.ID, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &itemType))
	assert.Equal(t, "Hand tool", itemType.Name)

	status, _ = a.do(http.MethodDelete, "/api/type/"+itemType.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodDelete, "/api/type/"+itemType.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategoryTree(t *testing.T) {
	a := newTestAPI(t)
	workspaceID := a.createWorkspace("Shop")

	create := func(name, parentID string) model.Category {
		t.Helper()
		status, body := a.do(http.MethodPost, "/api/category", map[string]string{
			"workspaceId": workspaceID,
			"name":        name,
			"parentId":    parentID,
		})
		require.Equal(t, http.StatusOK, status)
		var category model.Category
		require.NoError(t, json.Unmarshal(body, &category))
		return category
	}

	root := create("Electronics", "")
	child := create("Laptops", root.ID)
	create("Ultrabooks", child.ID)
	create("Phones", root.ID)

	// Unknown parent is a request error, not a server error.
	status, body := a.do(http.MethodPost, "/api/category", map[string]string{
		"workspaceId": workspaceID,
		"name":        "Orphan",
		"parentId":    "no-such-parent",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"message":"Invalid body"}`, string(body))

	status, body = a.do(http.MethodGet, "/api/category/"+root.ID+"/children", nil)
	require.Equal(t, http.StatusOK, status)
	var subtree []model.Category
	require.NoError(t, json.Unmarshal(body, &subtree))
	require.Len(t, subtree, 3)
	assert.Equal(t, "Laptops", subtree[0].Name)
	assert.Equal(t, "Ultrabooks", subtree[1].Name)
	assert.Equal(t, "Phones", subtree[2].Name)

	// A leaf has no children but the route still answers with an array.
	status, body = a.do(http.MethodGet, "/api/category/"+subtree[1].ID+"/children", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))

	// Deleting the subtree root removes the descendants too.
	status, _ = a.do(http.MethodDelete, "/api/category/"+child.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/api/category/workspace/"+workspaceID, nil)
	require.Equal(t, http.StatusOK, status)
	var remaining []model.Category
	require.NoError(t, json.Unmarshal(body, &remaining))
	assert.Len(t, remaining, 2)
}

func TestItemEndpoints(t *testing.T) {
	a := newTestAPI(t)
	workspaceID := a.createWorkspace("Shop")

	status, body := a.do(http.MethodPost, "/api/category", map[string]string{
		"workspaceId": workspaceID,
		"name":        "Tools",
	})
	require.Equal(t, http.StatusOK, status)
	var category model.Category
	require.NoError(t, json.Unmarshal(body, &category))

	status, body = a.do(http.MethodPost, "/api/type", map[string]string{"name": "Hand tool"})
	require.Equal(t, http.StatusOK, status)
	var itemType model.ItemType
	require.NoError(t, json.Unmarshal(body, &itemType))

	// Quantity and forSale are required, not defaulted.
	status, body = a.do(http.MethodPost, "/api/item", map[string]any{
		"workspaceId": workspaceID,
		"categoryId":  category.ID,
		"typeId":      itemType.ID,
		"name":        "Hammer",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"message":"Invalid body"}`, string(body))

	status, body = a.do(http.MethodPost, "/api/item", map[string]any{
		"workspaceId": workspaceID,
		"categoryId":  category.ID,
		"typeId":      itemType.ID,
		"name":        "Hammer",
		"quantity":    2,
		"forSale":     false,
		"retailPrice": 12.5,
	})
	require.Equal(t, http.StatusOK, status)
	var item model.Item
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.RetailPrice)

	status, body = a.do(http.MethodGet, "/api/item/category/"+category.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var items []model.Item
	require.NoError(t, json.Unmarshal(body, &items))
	assert.Len(t, items, 1)

	status, body = a.do(http.MethodPut, "/api/item/"+item.ID, map[string]any{
		"quantity": 7,
		"forSale":  true,
	})
	require.Equal(t, http.StatusOK, status)
	var updated model.Item
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 7, updated.Quantity)
	assert.True(t, updated.ForSale)
	assert.Equal(t, "Hammer", updated.Name)

	status, body = a.do(http.MethodGet, "/api/item/workspace/"+workspaceID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodDelete, "/api/item/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/api/item/workspace/"+workspaceID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, body)
}

func TestItemImageUpload(t *testing.T) {
	a := newTestAPI(t)
	workspaceID := a.createWorkspace("Shop")

	status, body := a.do(http.MethodPost, "/api/category", map[string]string{
		"workspaceId": workspaceID, "name": "Tools",
	})
	require.Equal(t, http.StatusOK, status)
	var category model.Category
	require.NoError(t, json.Unmarshal(body, &category))

	status, body = a.do(http.MethodPost, "/api/type", map[string]string{"name": "Tool"})
	require.Equal(t, http.StatusOK, status)
	var itemType model.ItemType
	require.NoError(t, json.Unmarshal(body, &itemType))

	status, body = a.do(http.MethodPost, "/api/item", map[string]any{
		"workspaceId": workspaceID,
		"categoryId":  category.ID,
		"typeId":      itemType.ID,
		"name":        "Pictured",
		"quantity":    1,
		"forSale":     false,
	})
	require.Equal(t, http.StatusOK, status)
	var item model.Item
	require.NoError(t, json.Unmarshal(body, &item))

	// No image yet.
	status, _ = a.do(http.MethodGet, "/api/item/"+item.ID+"/image", nil)
	assert.Equal(t, http.StatusNotFound, status)

	resp := a.uploadImage(item.ID, testPNG(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, a.server.URL+"/api/item/"+item.ID+"/image", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)
	imgResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer imgResp.Body.Close()
	assert.Equal(t, http.StatusOK, imgResp.StatusCode)
	assert.Equal(t, "image/png", imgResp.Header.Get("Content-Type"))

	data, err := io.ReadAll(imgResp.Body)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestItemImageRejectsGarbage(t *testing.T) {
	a := newTestAPI(t)
	workspaceID := a.createWorkspace("Shop")

	status, body := a.do(http.MethodPost, "/api/category", map[string]string{
		"workspaceId": workspaceID, "name": "Tools",
	})
	require.Equal(t, http.StatusOK, status)
	var category model.Category
	require.NoError(t, json.Unmarshal(body, &category))

	status, body = a.do(http.MethodPost, "/api/type", map[string]string{"name": "Tool"})
	require.Equal(t, http.StatusOK, status)
	var itemType model.ItemType
	require.NoError(t, json.Unmarshal(body, &itemType))

	status, body = a.do(http.MethodPost, "/api/item", map[string]any{
		"workspaceId": workspaceID,
		"categoryId":  category.ID,
		"typeId":      itemType.ID,
		"name":        "Pictured",
		"quantity":    1,
		"forSale":     false,
	})
	require.Equal(t, http.StatusOK, status)
	var item model.Item
	require.NoError(t, json.Unmarshal(body, &item))

	resp := a.uploadImage(item.ID, []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestWorkspaceListByUser(t *testing.T) {
	a := newTestAPI(t)

	// Empty yields an array, unlike the other workspace-scoped filters.
	status, body := a.do(http.MethodGet, "/api/workspace/user/"+a.user.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))

	a.createWorkspace("One")
	a.createWorkspace("Two")

	status, body = a.do(http.MethodGet, "/api/workspace/user/"+a.user.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var workspaces []model.Workspace
	require.NoError(t, json.Unmarshal(body, &workspaces))
	assert.Len(t, workspaces, 2)
}

func TestUserEndpoints(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodPost, "/api/user", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, status)
	var user model.User
	require.NoError(t, json.Unmarshal(body, &user))
	assert.NotEmpty(t, user.ID)

	// The password hash never leaves the server.
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "hunter2")

	// The new account can log in.
	a.token = ""
	status, _ = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, status)
}

// uploadImage PUTs a multipart form with the given file bytes.
func (a *testAPI) uploadImage(itemID string, data []byte) *http.Response {
	a.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(a.t, err)
	_, err = part.Write(data)
	require.NoError(a.t, err)
	require.NoError(a.t, writer.Close())

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/item/%s/image", a.server.URL, itemID), &buf)
	require.NoError(a.t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	return resp
}

// testPNG renders a small PNG in memory.
func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
