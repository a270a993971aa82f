package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/handlers"
	"foodsafety-backend/internal/api/routes"
	"foodsafety-backend/internal/middleware"
	"foodsafety-backend/internal/testutil"
	"foodsafety-backend/internal/utils"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/mailing"
	"foodsafety-backend/pkg/analytics"
	"foodsafety-backend/pkg/complaint"
	"foodsafety-backend/pkg/fssai"
	"foodsafety-backend/pkg/incident"
	"foodsafety-backend/pkg/jwt"
	"foodsafety-backend/pkg/product"
	"foodsafety-backend/pkg/review"
	"foodsafety-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeS3 struct{}

func (fakeS3) UploadFile(_ context.Context, name string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	return folder + "/" + name, nil
}

func (fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example/" + objectKey
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	jwt jwt.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.NewNop()
	validator := utils.NewValidator()
	jwtService := jwt.NewJWTService("test-secret")
	mailer := mailing.NewLogMailer(log)

	userRepository := user.NewUserRepository(db)
	reviewService := review.NewReviewService(review.NewReviewRepository(db), userRepository, log)

	app := fiber.New()
	cfg := routes.Config{
		App:              app,
		UserHandler:      handlers.NewUserHandler(user.NewUserService(userRepository, jwtService, log), validator),
		ProductHandler:   handlers.NewProductHandler(product.NewProductService(product.NewProductRepository(db), log), reviewService, validator),
		ReviewHandler:    handlers.NewReviewHandler(reviewService, validator),
		ComplaintHandler: handlers.NewComplaintHandler(complaint.NewComplaintService(complaint.NewComplaintRepository(db), userRepository, fakeS3{}, log), validator),
		IncidentHandler:  handlers.NewIncidentHandler(incident.NewIncidentService(incident.NewIncidentRepository(db), userRepository, mailer, log), validator),
		FSSAIHandler:     handlers.NewFSSAIHandler(fssai.NewFSSAIService(fssai.NewFSSAIRepository(db), fakeS3{}, mailer, log), validator),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analytics.NewAnalyticsService(analytics.NewAnalyticsRepository(db), nil, 0, log)),
		Middleware:       middleware.NewMiddleware(),
		JWTService:       jwtService,
	}
	cfg.Setup()

	return &testServer{app: app, db: db, jwt: jwtService}
}

func (s *testServer) tokenFor(t *testing.T, username, role string) (string, string) {
	t.Helper()
	u := testutil.SeedUser(t, s.db, username, role)
	token, err := s.jwt.GenerateTokenUser(u.ID.String(), role)
	require.NoError(t, err)
	return token, u.ID.String()
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.send(t, req, token)
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp, err := s.app.Test(req, -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUserRoutes_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/v1/users/register", "", domain.RegisterRequest{
		Username: "asha",
		Email:    "Asha@Example.com",
		Password: "secret123",
		Company:  "Asha Foods",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodPost, "/api/v1/users/login", "", domain.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, code)

	var login domain.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	code, env = s.do(t, http.MethodGet, "/api/v1/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, code)

	var me domain.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "asha@example.com", me.Email)
	assert.Equal(t, domain.RoleConsumer, me.Role)
	assert.Equal(t, 50, me.ActivityMetrics.TrustScore)
}

func TestUserRoutes_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	s.tokenFor(t, "taken", domain.RoleConsumer)

	tests := []struct {
		name string
		req  domain.RegisterRequest
		want int
	}{
		{
			name: "invalid body",
			req:  domain.RegisterRequest{Username: "x", Email: "not-an-email", Password: "1"},
			want: http.StatusBadRequest,
		},
		{
			name: "admin is not self assignable",
			req:  domain.RegisterRequest{Username: "boss", Email: "boss@example.com", Password: "secret123", Company: "Co", Role: domain.RoleAdmin},
			want: http.StatusForbidden,
		},
		{
			name: "duplicate email",
			req:  domain.RegisterRequest{Username: "other", Email: "taken@example.com", Password: "secret123", Company: "Co"},
			want: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(t, http.MethodPost, "/api/v1/users/register", "", tt.req)
			assert.Equal(t, tt.want, code)
			assert.False(t, env.Status)
		})
	}

	code, _ := s.do(t, http.MethodPost, "/api/v1/users/login", "", domain.LoginRequest{Email: "taken@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProductRoutes_RoleGuards(t *testing.T) {
	s := newTestServer(t)
	consumer, _ := s.tokenFor(t, "consumer", domain.RoleConsumer)
	admin, _ := s.tokenFor(t, "admin", domain.RoleAdmin)

	req := domain.CreateProductRequest{
		Name:            "Masala Oats",
		FSSAILicense:    "10012345000111",
		Category:        "packaged-foods",
		Establishment:   domain.EstablishmentRequest{Name: "Oat Works", Type: "manufacturer"},
		FSSAIExpiryDate: "2030-01-01",
	}

	code, _ := s.do(t, http.MethodPost, "/api/v1/products", consumer, req)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/products", admin, req)
	assert.Equal(t, http.StatusCreated, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/products", admin, req)
	assert.Equal(t, http.StatusConflict, code)

	code, env := s.do(t, http.MethodGet, "/api/v1/products/verify/10012345000111", "", nil)
	assert.Equal(t, http.StatusOK, code)
	var verified domain.VerifyLicenseResponse
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	assert.True(t, verified.Verified)

	code, _ = s.do(t, http.MethodGet, "/api/v1/products/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestReviewRoutes_CreateAndDuplicate(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.tokenFor(t, "reviewer", domain.RoleConsumer)
	p := testutil.SeedProduct(t, s.db, "Paneer", "20012345000222")

	body := domain.CreateReviewRequest{
		ProductID: p.ID.String(),
		Ratings:   domain.RatingsRequest{Hygiene: 4, Safety: 5, Quality: 3},
		Title:     "Fresh",
		Content:   "Packed well and cold on delivery.",
	}

	code, env := s.do(t, http.MethodPost, "/api/v1/reviews", token, body)
	require.Equal(t, http.StatusCreated, code, env.Error)

	var created domain.CreateReviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.InDelta(t, 4.0, created.QualityMetrics.HygieneRating, 1e-9)
	assert.Equal(t, 1, created.QualityMetrics.ReportedIssues)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reviews", token, body)
	assert.Equal(t, http.StatusConflict, code)

	body.Ratings.Hygiene = 6
	code, _ = s.do(t, http.MethodPost, "/api/v1/reviews", token, body)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/reviews/product/"+p.ID.String()+"?page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Reviews    []domain.ReviewResponse   `json:"reviews"`
		Pagination domain.PaginationResponse `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Reviews, 1)
	assert.Equal(t, int64(1), page.Pagination.Total)
}

func TestIncidentRoutes_StatusUpdates(t *testing.T) {
	s := newTestServer(t)
	consumer, _ := s.tokenFor(t, "consumer", domain.RoleConsumer)
	inspector, _ := s.tokenFor(t, "inspector", domain.RoleFoodInspector)

	code, env := s.do(t, http.MethodPost, "/api/v1/incidents", consumer, domain.CreateIncidentRequest{
		Product:     "Ghee",
		Company:     "Dairy Co",
		Description: "Rancid smell",
		Category:    "Dairy",
	})
	require.Equal(t, http.StatusCreated, code)

	var inc domain.IncidentResponse
	require.NoError(t, json.Unmarshal(env.Data, &inc))
	assert.Equal(t, domain.PriorityMedium, inc.Priority)

	path := "/api/v1/incidents/" + inc.ID + "/status"

	code, _ = s.do(t, http.MethodPatch, path, consumer, domain.UpdateIncidentStatusRequest{Status: domain.IncidentStatusClosed})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodPatch, path, inspector, domain.UpdateIncidentStatusRequest{Status: domain.IncidentStatusResolved})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &inc))
	assert.Equal(t, domain.IncidentStatusResolved, inc.Status)

	code, _ = s.do(t, http.MethodPatch, path, inspector, domain.UpdateIncidentStatusRequest{Status: domain.IncidentStatusOpen})
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPatch, path, inspector, domain.UpdateIncidentStatusRequest{Status: "Archived"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestComplaintRoutes_MultipartSubmission(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.tokenFor(t, "shopper", domain.RoleConsumer)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fields := map[string]string{
		"productName":  "Fresh Curd 400g",
		"batchNumber":  "B-2024-118",
		"purchaseDate": "2024-05-02",
		"category":     "Dairy",
		"issueType":    "Safety Concern",
		"description":  "The curd smelled sour and the seal was broken on opening.",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="evidenceFiles"; filename="seal.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	code, env := s.send(t, req, token)
	require.Equal(t, http.StatusCreated, code, env.Error)

	var res domain.SubmitComplaintResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, domain.ComplaintStatusPending, res.Complaint.Status)
	require.Len(t, res.Complaint.EvidenceFiles, 1)
	assert.Equal(t, "seal.png", res.Complaint.EvidenceFiles[0].Filename)
	assert.Equal(t, domain.IncidentStatusOpen, res.Incident.Status)
	assert.Equal(t, domain.PriorityMedium, res.Incident.Priority)

	code, _ = s.do(t, http.MethodGet, "/api/v1/complaints/"+res.Complaint.ID, token, nil)
	assert.Equal(t, http.StatusOK, code)

	other, _ := s.tokenFor(t, "stranger", domain.RoleConsumer)
	code, _ = s.do(t, http.MethodGet, "/api/v1/complaints/"+res.Complaint.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestFSSAIRoutes_Validation(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/v1/fssai/verify", "", domain.VerifyFSSAIRequest{FSSAINumber: "1234567890123"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := s.do(t, http.MethodPost, "/api/v1/fssai/verify", "", domain.VerifyFSSAIRequest{FSSAINumber: "12345678901234"})
	assert.Equal(t, http.StatusOK, code)
	var verify domain.VerifyFSSAIResponse
	require.NoError(t, json.Unmarshal(env.Data, &verify))
	assert.False(t, verify.IsValid)

	code, _ = s.do(t, http.MethodGet, "/api/v1/fssai/check?fssaiNumber=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/fssai/my-registrations", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/fssai/my-registrations?email=nobody@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAnalyticsRoutes_RequireAuth(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.tokenFor(t, "official", domain.RoleHealthOfficial)

	code, _ := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	var dash domain.DashboardResponse
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Zero(t, dash.Stats.TotalIncidents)

	code, _ = s.do(t, http.MethodGet, "/api/v1/analytics/trends", token, nil)
	assert.Equal(t, http.StatusOK, code)
}
