package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ar-shop/internal/domain/activity"
	"github.com/yanqian/ar-shop/internal/domain/appstate"
	"github.com/yanqian/ar-shop/internal/domain/auth"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	"github.com/yanqian/ar-shop/internal/infra/activityqueue"
	"github.com/yanqian/ar-shop/internal/infra/activityrepo"
	"github.com/yanqian/ar-shop/internal/infra/camera"
	"github.com/yanqian/ar-shop/internal/infra/cartrepo"
	"github.com/yanqian/ar-shop/internal/infra/catalogrepo"
	"github.com/yanqian/ar-shop/internal/infra/config"
	"github.com/yanqian/ar-shop/internal/infra/objectstore"
	"github.com/yanqian/ar-shop/internal/infra/profilerepo"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

const validToken = "good-token"

func TestRouter_Health(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ListProductsFiltersByBrand(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodGet, "/api/v1/products?brand=MAC+Cosmetics&sort=price-high", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing catalog.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.NotEmpty(t, listing.Products)
	require.Equal(t, len(listing.Products), listing.Total)
	for i, p := range listing.Products {
		require.Equal(t, "MAC Cosmetics", p.Brand)
		if i > 0 {
			require.LessOrEqual(t, p.Price, listing.Products[i-1].Price)
		}
	}
	require.Contains(t, listing.Brands, "Maybelline New York")
}

func TestRouter_ListProductsUnknownSort(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodGet, "/api/v1/products?sort=cheapest", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apperrors.CodeInvalidInput, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_GetProductNotFound(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodGet, "/api/v1/products/999", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, apperrors.CodeNotFound, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodGet, "/api/v1/cart", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(server, http.MethodGet, "/api/v1/cart", "", "expired")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, auth.CodeInvalidToken, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_CartLifecycle(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodPost, "/api/v1/cart/items", `{"productId":"1"}`, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeCart(t, rec)
	require.Len(t, got.Items, 1)
	require.Equal(t, "5ml", got.Items[0].Size)
	require.Equal(t, int64(996), got.Totals.Price)

	rec = performRequest(server, http.MethodPatch, "/api/v1/cart/items", `{"productId":"1","size":"5ml","quantity":3}`, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeCart(t, rec)
	require.Equal(t, 3, got.Totals.Items)
	require.Equal(t, int64(2988), got.Totals.Price)

	rec = performRequest(server, http.MethodDelete, "/api/v1/cart/items/1?size=5ml", "", validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeCart(t, rec).Items)
}

func TestRouter_CartRejectsUnknownSizeAndMissingLine(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodPost, "/api/v1/cart/items", `{"productId":"1","size":"XXL"}`, validToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(server, http.MethodPatch, "/api/v1/cart/items", `{"productId":"2","size":"30ml","quantity":2}`, validToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PreferencesRoundTrip(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodGet, "/api/v1/preferences", "", validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs preferences.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	require.Equal(t, preferences.Defaults(), prefs)

	body := `{"style":"bold","colors":["red"],"size":"standard","budget":8300,"occasion":["party"]}`
	rec = performRequest(server, http.MethodPut, "/api/v1/preferences", body, validToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/preferences/skin-tone", `{"undertone":"warm","depth":"medium","hex":"#b4785a"}`, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	require.Equal(t, "bold", prefs.Style)
	require.NotNil(t, prefs.SkinTone)
	require.Equal(t, []string{"red", "coral", "gold", "bronze", "brown"}, prefs.Colors)

	rec = performRequest(server, http.MethodPut, "/api/v1/preferences", `{"style":"punk","size":"standard","budget":8300}`, validToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UpdatePreferencesChecksSkinTone(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})
	base := `"style":"natural","colors":["pink"],"size":"standard","budget":8300`

	for _, tone := range []string{
		`{"undertone":"purple","depth":"medium","hex":"#b4785a"}`,
		`{"undertone":"warm","depth":"abyssal","hex":"#b4785a"}`,
		`{"undertone":"warm","depth":"medium","hex":"javascript:alert(1)"}`,
	} {
		rec := performRequest(server, http.MethodPut, "/api/v1/preferences", `{`+base+`,"skinTone":`+tone+`}`, validToken)
		require.Equal(t, http.StatusBadRequest, rec.Code, tone)
		require.Equal(t, apperrors.CodeInvalidInput, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
	}

	forged := `{"undertone":"cool","depth":"light","hex":"#f1d2c3","confidence":100,"recommendations":{"foundationShade":"Anything"}}`
	rec := performRequest(server, http.MethodPut, "/api/v1/preferences", `{`+base+`,"skinTone":`+forged+`}`, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs preferences.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	require.Equal(t, skintone.Reconstruct("#f1d2c3", "light", "cool"), *prefs.SkinTone)
}

func TestRouter_SetViewRejectsUnknownTab(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodPost, "/api/v1/state/view", `{"tab":"ar-tryOn","showCart":true}`, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var state appstate.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, appstate.TabARTryOn, state.ActiveTab)
	require.True(t, state.ShowCart)

	rec = performRequest(server, http.MethodPost, "/api/v1/state/view", `{"tab":"kitchen"}`, validToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SelectProductLogsActivity(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	rec := performRequest(server, http.MethodPost, "/api/v1/state/select", `{"productId":"3"}`, validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var state appstate.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, "3", state.SelectedProductID)
	require.Equal(t, appstate.TabViewer3D, state.ActiveTab)

	rec = performRequest(server, http.MethodGet, "/api/v1/activity?limit=5", "", validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Events []activity.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	require.Equal(t, activity.ActionProductSelected, body.Events[0].Action)
}

func TestRouter_AnalyzeDataURL(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	payload, err := json.Marshal(map[string]any{"image": fixtureDataURL(t), "saveSnapshot": true})
	require.NoError(t, err)
	rec := performRequest(server, http.MethodPost, "/api/v1/skin-tone/analyze", string(payload), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis skintone.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	require.Equal(t, skintone.UndertoneWarm, analysis.Result.Undertone)
	require.Equal(t, skintone.DepthMedium, analysis.Result.Depth)
	require.True(t, strings.HasPrefix(analysis.SnapshotKey, "snapshots/anonymous/"))
}

func TestRouter_AnalyzeMultipart(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("frame", "frame.png")
	require.NoError(t, err)
	_, err = part.Write(fixturePNG(t))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/skin-tone/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+validToken)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AnalyzeRejectsGarbage(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodPost, "/api/v1/skin-tone/analyze", `{"image":"not an image"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AnalyzeRejectsFrameOverPixelBudget(t *testing.T) {
	frame := skintone.NewFrame(65, 64)
	frame.Fill(180, 120, 90)
	data, err := skintone.EncodePNG(frame)
	require.NoError(t, err)
	body := `{"image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(data) + `"}`

	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodPost, "/api/v1/skin-tone/analyze", body, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apperrors.CodeInvalidInput, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_CaptureWithoutCameraReportsRecovery(t *testing.T) {
	server := newRouterUnderTest(t, routerDeps{camera: camera.Unavailable{}})

	rec := performRequest(server, http.MethodPost, "/api/v1/skin-tone/capture", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, apperrors.CodeCaptureFailed, body["error"]["code"])
	require.Equal(t, string(skintone.RecoveryDemo), body["error"]["recovery"])
}

func TestRouter_CaptureStreamsProgress(t *testing.T) {
	frame := skintone.NewFrame(40, 40)
	frame.Fill(180, 120, 90)
	server := newRouterUnderTest(t, routerDeps{camera: camera.NewStillCamera(frame)})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/skin-tone/capture", nil)
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.NotEmpty(t, frames)
	var last captureEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frames[len(frames)-1], "data: ")), &last))
	require.Equal(t, 100, last.Progress)
	require.NotNil(t, last.Analysis)
	require.Equal(t, skintone.UndertoneWarm, last.Analysis.Result.Undertone)
}

func TestRouter_DemoIsPublic(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodGet, "/api/v1/skin-tone/demo", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var analysis skintone.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	require.True(t, analysis.Demo)
	require.Equal(t, "#D4A574", analysis.Result.Hex)
}

func TestRouter_OAuthCodeRedirectsToRoot(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodGet, "/callback?code=abc&state=xyz", "", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRouter_GoogleCallbackRejectsStateMismatch(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, routerDeps{}), http.MethodGet, "/api/v1/auth/google/callback?code=abc&state=xyz", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_state", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_RegisterConflict(t *testing.T) {
	svc := &stubAuth{registerFn: func(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error) {
		return auth.UserView{}, apperrors.Wrap(auth.CodeEmailExists, "email already registered", auth.ErrEmailExists)
	}}
	rec := performRequest(newRouterUnderTest(t, routerDeps{auth: svc}), http.MethodPost, "/api/v1/auth/register", `{"email":"a@b.co","password":"secret123"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	now := time.Now()
	require.True(t, limiter.allow("1.1.1.1", now))
	require.True(t, limiter.allow("1.1.1.1", now))
	require.False(t, limiter.allow("1.1.1.1", now))
	require.True(t, limiter.allow("2.2.2.2", now))
	require.True(t, limiter.allow("1.1.1.1", now.Add(time.Second)))
}

type routerDeps struct {
	auth   auth.Service
	camera skintone.Camera
}

func newRouterUnderTest(t *testing.T, deps routerDeps) *http.Server {
	t.Helper()
	logger := newTestLogger()
	if deps.auth == nil {
		deps.auth = &stubAuth{}
	}
	if deps.camera == nil {
		deps.camera = camera.Unavailable{}
	}

	activityRepo := activityrepo.NewMemoryRepository()
	activitySvc := activity.NewService(activityqueue.NewImmediatePublisher(activityRepo), activityRepo, logger)
	catalogSvc := catalog.NewService(catalogrepo.NewMemoryRepository(), logger)
	prefsSvc := preferences.NewService(profilerepo.NewMemoryStore(), logger)
	stateSvc := appstate.NewService(prefsSvc, cartrepo.NewMemoryStore(), activitySvc, logger)
	skinSvc := skintone.NewService(skintone.Config{}, deps.camera, objectstore.NewMemoryStore(), activitySvc, logger)

	handler := NewHandler(HandlerConfig{MaxUploadBytes: 1 << 20, MaxFramePixels: 64 * 64}, deps.auth, catalogSvc, skinSvc, stateSvc, activitySvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func performRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func fixturePNG(t *testing.T) []byte {
	t.Helper()
	frame := skintone.NewFrame(64, 64)
	frame.Fill(180, 120, 90)
	data, err := skintone.EncodePNG(frame)
	require.NoError(t, err)
	return data
}

func fixtureDataURL(t *testing.T) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(fixturePNG(t))
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var got cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubAuth struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error)
}

func (s *stubAuth) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return auth.UserView{ID: 1, Email: req.Email}, nil
}

func (s *stubAuth) Login(context.Context, auth.LoginRequest) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuth) GoogleAuthURL(context.Context, string, string) (string, error) {
	return "https://accounts.example/auth", nil
}

func (s *stubAuth) GoogleCallback(context.Context, string, string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuth) ValidateToken(_ context.Context, token string) (auth.Claims, error) {
	if token != validToken {
		return auth.Claims{}, apperrors.Wrap(auth.CodeInvalidToken, "token expired", nil)
	}
	return auth.Claims{UserID: 7, Email: "shopper@example.com", TokenType: "access"}, nil
}

func (s *stubAuth) Refresh(context.Context, string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuth) Profile(_ context.Context, userID int64) (auth.UserView, error) {
	return auth.UserView{ID: userID}, nil
}

func (s *stubAuth) Logout(context.Context, int64) error {
	return nil
}
