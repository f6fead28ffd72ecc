package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/listing/favorite"
	"github.com/CkBu3u/DiplomFinal/internal/listing/normalizer"
	"github.com/CkBu3u/DiplomFinal/internal/listing/usecase"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "router-secret"

type testEnv struct {
	router    http.Handler
	listings  *MockListingRepository
	catalog   *MockCatalogRepository
	favorites *MockFavoriteRepository
	reviews   *MockReviewRepository
	messages  *MockMessageRepository
	sessions  *MockSessionRevoker
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()
	env := &testEnv{
		listings:  new(MockListingRepository),
		catalog:   new(MockCatalogRepository),
		favorites: new(MockFavoriteRepository),
		reviews:   new(MockReviewRepository),
		messages:  new(MockMessageRepository),
		sessions:  new(MockSessionRevoker),
	}
	log := logger.NewNop()
	norm := normalizer.New("")
	rec := favorite.NewReconciler(env.favorites, env.sessions, favorite.NewClassifier(nil), log)

	searchUC := usecase.NewSearchUsecase(env.listings, env.catalog, nil, norm, rec, nil, log, usecase.SearchOptions{})
	listingUC := usecase.NewListingUsecase(env.listings, norm, rec, nil, nil, nil, log, 50)
	photoUC := usecase.NewPhotoUsecase(nil, env.listings, nil, nil, nil, log, 50)
	favoriteUC := usecase.NewFavoriteUsecase(env.favorites, env.listings, rec, norm, nil, nil, log)
	reviewUC := usecase.NewReviewUsecase(env.reviews, env.listings, nil, nil, nil, nil, log)
	catalogUC := usecase.NewCatalogUsecase(env.catalog)
	messageUC := usecase.NewMessageUsecase(env.messages, env.listings, nil, nil, nil, log)

	env.router = New(Handlers{
		Listings:  handler.NewListingHandler(searchUC, listingUC, photoUC, 0, log),
		Favorites: handler.NewFavoriteHandler(favoriteUC, log),
		Reviews:   handler.NewReviewHandler(reviewUC, log),
		Catalog:   handler.NewCatalogHandler(catalogUC, log),
		Messages:  handler.NewMessageHandler(messageUC, log),
	}, middleware.NewAuthenticator(jwtSecret, nil, log), log, nil, Options{ServiceName: "test", StaticDir: staticDir})
	return env
}

func token(t *testing.T, userID string) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return s
}

func (env *testEnv) do(method, path, bearer string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSearch_QueryParams(t *testing.T) {
	env := newTestEnv(t, "")
	env.listings.On("Find", mock.Anything, mock.MatchedBy(func(q domain.Query) bool {
		return len(q.Where) == 2 &&
			assert.ObjectsAreEqual(domain.Predicate{Field: domain.FieldBrandID, Op: domain.OpIn, Value: []int64{1, 2}}, q.Where[1])
	})).Return([]domain.RawListingRecord{{ID: "l1"}}, nil)

	rec := env.do(http.MethodGet, "/api/listings/search?brand_id=1,2&brand_id=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, false, items[0].(map[string]any)["is_favorite"])
	assert.Equal(t, float64(20), body["page_size"])
}

func TestSearch_JSONBodyWithViewer(t *testing.T) {
	env := newTestEnv(t, "")
	env.listings.On("Find", mock.Anything, mock.MatchedBy(func(q domain.Query) bool {
		return q.Limit == 5
	})).Return([]domain.RawListingRecord{{ID: "l1"}, {ID: "l2"}}, nil)
	env.favorites.On("ListingIDs", mock.Anything, "u1").Return([]string{"l2"}, nil)

	rec := env.do(http.MethodPost, "/api/listings/search", token(t, "u1"), []byte(`{"limit":5,"brand_id":[]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode(t, rec)["items"].([]any)
	assert.Equal(t, false, items[0].(map[string]any)["is_favorite"])
	assert.Equal(t, true, items[1].(map[string]any)["is_favorite"])
}

func TestSearch_RemoteFailure(t *testing.T) {
	env := newTestEnv(t, "")
	env.listings.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mongo down"))

	rec := env.do(http.MethodGet, "/api/listings/search", "", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, []any{}, body["items"])
	assert.NotEmpty(t, body["error"])
}

func TestGetListing_NotFound(t *testing.T) {
	env := newTestEnv(t, "")
	env.listings.On("FindByID", mock.Anything, "nope").Return(nil, domain.ErrListingNotFound)

	rec := env.do(http.MethodGet, "/api/listings/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavorites_RequireSession(t *testing.T) {
	env := newTestEnv(t, "")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/favorites"},
		{http.MethodPut, "/api/favorites/l1"},
		{http.MethodDelete, "/api/favorites/l1"},
		{http.MethodPost, "/api/favorites/l1/toggle"},
	} {
		rec := env.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
	env.favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavorites_AddSucceeds(t *testing.T) {
	env := newTestEnv(t, "")
	env.favorites.On("Add", mock.Anything, "u1", "l1").Return(nil)

	rec := env.do(http.MethodPut, "/api/favorites/l1", token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["favorited"])
}

func TestFavorites_ToggleExpiredSession(t *testing.T) {
	env := newTestEnv(t, "")
	env.favorites.On("Remove", mock.Anything, "u1", "l1").Return(errors.New("PGRST301: JWT expired"))
	env.sessions.On("Revoke", mock.Anything, domain.Viewer{ID: "u1"}).Return(nil)

	rec := env.do(http.MethodPost, "/api/favorites/l1/toggle", token(t, "u1"), []byte(`{"favorited":true}`))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["reauth"])
	assert.Equal(t, false, body["favorited"])
	env.sessions.AssertExpectations(t)
}

func TestFavorites_ToggleOtherFailure(t *testing.T) {
	env := newTestEnv(t, "")
	env.favorites.On("Add", mock.Anything, "u1", "l1").Return(errors.New("connection refused"))

	rec := env.do(http.MethodPost, "/api/favorites/l1/toggle", token(t, "u1"), []byte(`{"favorited":false}`))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["favorited"])
	assert.Nil(t, body["reauth"])
}

func TestReviews_CreateValidation(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(http.MethodPost, "/api/listings/l1/reviews", token(t, "u1"), []byte(`{"rating":9}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/listings/l1/reviews", token(t, "u1"), []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog_Routes(t *testing.T) {
	env := newTestEnv(t, "")
	env.catalog.On("ListBrands", mock.Anything, true).Return([]domain.Brand{{ID: 1, Name: "BMW"}}, nil)

	rec := env.do(http.MethodGet, "/api/brands?popular=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = env.do(http.MethodGet, "/api/brands/abc/models", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	env := newTestEnv(t, dir)

	rec := env.do(http.MethodGet, "/cars/42", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app</html>")

	rec = env.do(http.MethodGet, "/app.js", "", nil)
	assert.True(t, strings.Contains(rec.Body.String(), "console.log"))

	rec = env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListingWrites_RequireSession(t *testing.T) {
	env := newTestEnv(t, "")

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/listings"},
		{http.MethodPut, "/api/listings/l1"},
		{http.MethodPatch, "/api/listings/l1/status"},
		{http.MethodDelete, "/api/listings/l1"},
	} {
		rec := env.do(tc.method, tc.path, "", []byte(`{}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
	env.listings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestListingCreate(t *testing.T) {
	env := newTestEnv(t, "")
	env.listings.On("Insert", mock.Anything, mock.MatchedBy(func(rec *domain.RawListingRecord) bool {
		return rec.UserID == "seller-1" && rec.Title == "Camry"
	})).Return("l-new", nil).Once()
	env.listings.On("FindByID", mock.Anything, "l-new").Return(&domain.RawListingRecord{ID: "l-new", UserID: "seller-1", Title: "Camry"}, nil)

	body := []byte(`{"title":"Camry","brand_id":1,"model_id":10,"year":2019,"price":2500000}`)
	rec := env.do(http.MethodPost, "/api/listings", token(t, "seller-1"), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "l-new", decode(t, rec)["id"])

	rec = env.do(http.MethodPost, "/api/listings", token(t, "seller-1"), []byte(`{"title":"Camry"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/listings", token(t, "seller-1"), []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingUpdateStatusAndDelete(t *testing.T) {
	env := newTestEnv(t, "")
	env.listings.On("FindByID", mock.Anything, "l1").Return(&domain.RawListingRecord{
		ID: "l1", UserID: "seller-1", Title: "Camry", BrandID: 1, ModelID: 10, Year: 2019, Price: 2500000, Status: domain.StatusActive,
	}, nil)
	env.listings.On("Update", mock.Anything, mock.Anything).Return(nil)
	env.listings.On("Delete", mock.Anything, "l1").Return(nil).Once()

	rec := env.do(http.MethodPut, "/api/listings/l1", token(t, "intruder"), []byte(`{"price":1}`))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPut, "/api/listings/l1", token(t, "seller-1"), []byte(`{"price":2400000}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPatch, "/api/listings/l1/status", token(t, "seller-1"), []byte(`{"status":"Sold"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPatch, "/api/listings/l1/status", token(t, "seller-1"), []byte(`{"status":"rejected"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/api/listings/l1", token(t, "seller-1"), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	env.listings.AssertExpectations(t)
}

func TestMessages(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(http.MethodGet, "/api/messages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.SenderID == "buyer" && m.ReceiverID == "seller" && m.Content == "Здравствуйте"
	})).Return(nil).Once()
	rec = env.do(http.MethodPost, "/api/messages/seller", token(t, "buyer"), []byte(`{"content":"Здравствуйте"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "seller", decode(t, rec)["receiver_id"])

	rec = env.do(http.MethodPost, "/api/messages/buyer", token(t, "buyer"), []byte(`{"content":"me"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.messages.On("Involving", mock.Anything, "buyer").Return([]domain.Message{
		{SenderID: "buyer", ReceiverID: "seller", Content: "Здравствуйте"},
	}, nil)
	rec = env.do(http.MethodGet, "/api/messages", token(t, "buyer"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "seller", items[0].(map[string]any)["user_id"])
	assert.Equal(t, usecase.DefaultUserName, items[0].(map[string]any)["user_name"])

	env.messages.On("Between", mock.Anything, "buyer", "seller").Return(nil, errors.New("mongo down"))
	rec = env.do(http.MethodGet, "/api/messages/seller", token(t, "buyer"), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
