package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage/memory"
)

type testAPI struct {
	app   *fiber.App
	auth  *services.AuthService
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.New()
	uploadDir := t.TempDir()

	auth := services.NewAuthService(store, services.NewMemoryBlacklist(),
		&services.NoopMailer{Log: zerolog.Nop()}, zerolog.Nop(),
		"test-secret", 15*time.Minute, 7*24*time.Hour, "")
	userService := services.NewUserService(store)
	photoService := services.NewPhotoService(store)
	tagService := services.NewTagService(store)
	commentService := services.NewCommentService(store)
	ratingService := services.NewRatingService(store)
	qrService := services.NewQRService(store, uploadDir, "")

	app := fiber.New()
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", SignupHandler(auth))
	authGroup.Post("/login", LoginHandler(auth))
	authGroup.Get("/refresh_token", RefreshHandler(auth))
	authGroup.Post("/logout", Protected(auth), LogoutHandler(auth))
	authGroup.Get("/confirmed_email/:token", ConfirmEmailHandler(auth))
	authGroup.Post("/request_email", RequestEmailHandler(auth))

	users := api.Group("/users", Protected(auth))
	users.Get("/me", MeHandler(userService))
	users.Put("/", UpdateUserHandler(userService))
	users.Put("/avatar", UploadAvatarHandler(userService, uploadDir, ""))
	users.Patch("/:email/ban", RequireRoles(models.RoleAdministrator), BanUserHandler(userService))
	users.Patch("/:email/role", RequireRoles(models.RoleAdministrator), ChangeRoleHandler(userService))

	photos := api.Group("/photos", Protected(auth))
	photos.Post("/", UploadPhotoHandler(photoService, uploadDir, ""))
	photos.Get("/", ListPhotosHandler(photoService))
	photos.Get("/:id", GetPhotoHandler(photoService))
	photos.Put("/:id", UpdatePhotoHandler(photoService))
	photos.Delete("/:id", DeletePhotoHandler(photoService, uploadDir))
	photos.Post("/:id/qr", QRPhotoHandler(qrService))
	photos.Post("/:id/like", LikePhotoHandler(photoService))
	photos.Delete("/:id/like", UnlikePhotoHandler(photoService))

	tags := api.Group("/tags", Protected(auth))
	tags.Post("/", CreateTagHandler(tagService))
	tags.Get("/my", MyTagsHandler(tagService))
	tags.Get("/all", RequireRoles(models.RoleAdministrator), AllTagsHandler(tagService))
	tags.Get("/:id", GetTagHandler(tagService))

	comments := api.Group("/comments", Protected(auth))
	comments.Post("/photo/:photo_id", CreateCommentHandler(commentService))
	comments.Get("/photo/:photo_id", ListCommentsHandler(commentService))
	comments.Put("/:id", UpdateCommentHandler(commentService))
	comments.Delete("/:id", DeleteCommentHandler(commentService))

	ratings := api.Group("/ratings", Protected(auth))
	ratings.Post("/photo/:photo_id", CreateRatingHandler(ratingService))
	ratings.Get("/photo/:photo_id", ListRatingsHandler(ratingService))

	return &testAPI{app: app, auth: auth, store: store}
}

// signup registers and confirms the account, then logs in. The first account
// registered in a test becomes Administrator.
func (a *testAPI) signup(t *testing.T, username, email, password string) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	resp := a.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	token, err := a.auth.EmailToken(email)
	require.NoError(t, err)
	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/confirmed_email/"+token, nil), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	return a.login(t, email, password)
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	resp := a.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res models.AuthResponse
	decode(t, resp, &res)
	return res.AccessToken
}

func (a *testAPI) do(t *testing.T, req *http.Request, token string) *http.Response {
	t.Helper()
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func (a *testAPI) uploadPhoto(t *testing.T, token, description string, tags []string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "cat.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("description", description))
	for _, tag := range tags {
		require.NoError(t, w.WriteField("tags", tag))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(t, req, token)
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestSignupLoginFlow(t *testing.T) {
	api := newTestAPI(t)

	body := `{"username":"alice","email":"alice@example.com","password":"pw123456"}`
	resp := api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.RegisterResponse
	decode(t, resp, &created)
	assert.Equal(t, "User successfully created", created.Detail)
	assert.Equal(t, models.RoleAdministrator, created.User.Role)

	// Duplicate signup conflicts.
	resp = api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)), "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Login before confirmation fails.
	login := `{"email":"alice@example.com","password":"pw123456"}`
	resp = api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(login)), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := api.auth.EmailToken("alice@example.com")
	require.NoError(t, err)
	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/confirmed_email/"+token, nil), "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	access := api.login(t, "alice@example.com", "pw123456")

	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me models.User
	decode(t, resp, &me)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestProtectedRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	api := newTestAPI(t)
	access := api.signup(t, "alice", "alice@example.com", "pw123456")

	resp := api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), access)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPhotoUploadAndList(t *testing.T) {
	api := newTestAPI(t)
	access := api.signup(t, "alice", "alice@example.com", "pw123456")

	resp := api.uploadPhoto(t, access, "my cat", []string{"cats,pets"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var photo models.Photo
	decode(t, resp, &photo)
	assert.Equal(t, "my cat", photo.Description)
	assert.Len(t, photo.Tags, 2)
	assert.Contains(t, photo.ImageURL, "/uploads/")

	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/photos/", nil), access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list models.PhotoListResponse
	decode(t, resp, &list)
	assert.Len(t, list.Photos, 1)
}

func TestPhotoListNegativePaging(t *testing.T) {
	api := newTestAPI(t)
	access := api.signup(t, "alice", "alice@example.com", "pw123456")

	resp := api.uploadPhoto(t, access, "cat", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/photos/?skip=-1&limit=-5", nil), access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list models.PhotoListResponse
	decode(t, resp, &list)
	assert.Len(t, list.Photos, 1)
}

func TestPhotoUploadTooManyTags(t *testing.T) {
	api := newTestAPI(t)
	access := api.signup(t, "alice", "alice@example.com", "pw123456")

	resp := api.uploadPhoto(t, access, "", []string{"a,b,c,d,e,f"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPhotoLike(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signup(t, "alice", "alice@example.com", "pw123456")
	fan := api.signup(t, "bob", "bob@example.com", "pw123456")

	resp := api.uploadPhoto(t, owner, "cat", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var photo models.Photo
	decode(t, resp, &photo)

	url := fmt.Sprintf("/api/photos/%d/like", photo.ID)
	resp = api.do(t, httptest.NewRequest(http.MethodPost, url, nil), fan)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPost, url, nil), fan)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodDelete, url, nil), fan)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodDelete, url, nil), fan)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCommentRoutes(t *testing.T) {
	api := newTestAPI(t)
	admin := api.signup(t, "admin", "admin@example.com", "pw123456")
	author := api.signup(t, "bob", "bob@example.com", "pw123456")

	resp := api.uploadPhoto(t, admin, "cat", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var photo models.Photo
	decode(t, resp, &photo)

	url := fmt.Sprintf("/api/comments/photo/%d", photo.ID)
	resp = api.do(t, httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"text":"nice"}`)), author)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decode(t, resp, &comment)

	// Only the author may edit.
	editURL := fmt.Sprintf("/api/comments/%d", comment.ID)
	resp = api.do(t, httptest.NewRequest(http.MethodPut, editURL, strings.NewReader(`{"text":"edited"}`)), admin)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPut, editURL, strings.NewReader(`{"text":"edited"}`)), author)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Deletion is staff only.
	resp = api.do(t, httptest.NewRequest(http.MethodDelete, editURL, nil), author)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodDelete, editURL, nil), admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRatingRoutes(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signup(t, "alice", "alice@example.com", "pw123456")
	critic := api.signup(t, "bob", "bob@example.com", "pw123456")

	resp := api.uploadPhoto(t, owner, "cat", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var photo models.Photo
	decode(t, resp, &photo)

	url := fmt.Sprintf("/api/ratings/photo/%d", photo.ID)

	// No rating your own photo.
	resp = api.do(t, httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"stars":5}`)), owner)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"stars":4}`)), critic)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"stars":2}`)), critic)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodGet, url, nil), owner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ratings models.RatingListResponse
	decode(t, resp, &ratings)
	assert.Len(t, ratings.Ratings, 1)
	assert.InDelta(t, 4.0, ratings.Average, 0.0001)
}

func TestTagAdminRoutes(t *testing.T) {
	api := newTestAPI(t)
	admin := api.signup(t, "admin", "admin@example.com", "pw123456")
	user := api.signup(t, "bob", "bob@example.com", "pw123456")

	resp := api.do(t, httptest.NewRequest(http.MethodPost, "/api/tags/", strings.NewReader(`{"title":"cats"}`)), user)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPost, "/api/tags/", strings.NewReader(`{"title":"cats"}`)), user)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Listing all tags is admin only.
	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/tags/all", nil), user)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/tags/all", nil), admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAvatarUpload(t *testing.T) {
	api := newTestAPI(t)
	access := api.signup(t, "alice", "alice@example.com", "pw123456")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", "face.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := api.do(t, req, access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	decode(t, resp, &updated)
	assert.Contains(t, updated.Avatar, "/uploads/avatar_")

	// The missing field is a client error.
	req = httptest.NewRequest(http.MethodPut, "/api/users/avatar", strings.NewReader("{}"))
	resp = api.do(t, req, access)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequestEmail(t *testing.T) {
	api := newTestAPI(t)

	body := `{"username":"alice","email":"alice@example.com","password":"pw123456"}`
	resp := api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var msg struct {
		Message string `json:"message"`
	}

	// Not yet confirmed: the mail is re-sent.
	resp = api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/request_email",
		strings.NewReader(`{"email":"alice@example.com"}`)), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &msg)
	assert.Equal(t, "Check your email for confirmation.", msg.Message)

	token, err := api.auth.EmailToken("alice@example.com")
	require.NoError(t, err)
	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/confirmed_email/"+token, nil), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/request_email",
		strings.NewReader(`{"email":"alice@example.com"}`)), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &msg)
	assert.Equal(t, "Your email is already confirmed", msg.Message)

	// Unknown addresses get the same non-committal answer.
	resp = api.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/request_email",
		strings.NewReader(`{"email":"nobody@example.com"}`)), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &msg)
	assert.Equal(t, "Check your email for confirmation.", msg.Message)
}

func TestBanAndRoleRoutes(t *testing.T) {
	api := newTestAPI(t)
	admin := api.signup(t, "admin", "admin@example.com", "pw123456")
	user := api.signup(t, "bob", "bob@example.com", "pw123456")

	// Only admins may change roles.
	resp := api.do(t, httptest.NewRequest(http.MethodPatch, "/api/users/admin@example.com/role",
		strings.NewReader(`{"role":"Moderator"}`)), user)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPatch, "/api/users/bob@example.com/role",
		strings.NewReader(`{"role":"Moderator"}`)), admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPatch, "/api/users/bob@example.com/role",
		strings.NewReader(`{"role":"Wizard"}`)), admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPatch, "/api/users/bob@example.com/ban", nil), admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Banned users are rejected on the next request.
	resp = api.do(t, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), user)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = api.do(t, httptest.NewRequest(http.MethodPatch, "/api/users/nobody@example.com/ban", nil), admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
