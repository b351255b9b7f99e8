package handler

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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/approval"
	identityapp "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/identity"
	orgapp "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/auth"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/config"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/persistence"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/storage"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/middleware"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp wires the whole stack over an in-memory database so handler tests
// exercise the real services, repositories and middleware.
type testApp struct {
	engine  *gin.Engine
	jwt     *auth.JWTService
	users   *persistence.GormUserRepository
	storage *storage.StubObjectStorage

	departments *persistence.GormDepartmentRepository
	categories  *persistence.GormCategoryRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, (&persistence.Database{DB: db}).Migrate())

	userRepo := persistence.NewGormUserRepository(db)
	departmentRepo := persistence.NewGormDepartmentRepository(db)
	projectRepo := persistence.NewGormProjectRepository(db)
	eventRepo := persistence.NewGormEventRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)

	stub := storage.NewStubObjectStorage()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "handler-test-secret-32-characters!!!",
		Expiration: time.Hour,
		Issuer:     "zeroko-cash-test",
	})
	authService := identityapp.NewAuthService(userRepo, jwtService, nil)
	requestService := approval.NewRequestService(expenseRepo, invoiceRepo, userRepo, nil)
	feedService := approval.NewFeedService(expenseRepo, invoiceRepo)
	receiptService := approval.NewReceiptService(expenseRepo, invoiceRepo, stub, "receipts", nil)
	dependencyService := approval.NewDependencyService(expenseRepo, invoiceRepo, departmentRepo, eventRepo)
	orgService := orgapp.NewService(departmentRepo, projectRepo, eventRepo, categoryRepo, dependencyService, nil)

	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	r := router.NewRouter(engine)
	r.Register(NewAuthHandler(authService)).
		Register(NewRequestHandler(requestService, feedService, receiptService, 10<<20)).
		Register(NewOrganizationHandler(orgService)).
		Register(NewSystemHandler(nil, "zeroko-cash", "test"))
	r.Setup()

	return &testApp{
		engine:      engine,
		jwt:         jwtService,
		users:       userRepo,
		storage:     stub,
		departments: departmentRepo,
		categories:  categoryRepo,
	}
}

func (a *testApp) createUser(t *testing.T, email string, role identity.Role, departmentID *uuid.UUID) (*identity.User, string) {
	t.Helper()
	user, err := identity.NewUser(email, "Test User", "s3cret-password", role)
	require.NoError(t, err)
	if departmentID != nil {
		user.AssignDepartment(*departmentID)
	}
	require.NoError(t, a.users.Save(context.Background(), user))

	token, _, err := a.jwt.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (a *testApp) createDepartment(t *testing.T, code, name string) *organization.Department {
	t.Helper()
	dept, err := organization.NewDepartment(code, name)
	require.NoError(t, err)
	require.NoError(t, a.departments.Save(context.Background(), dept))
	return dept
}

func (a *testApp) createCategory(t *testing.T, name string) *organization.Category {
	t.Helper()
	category, err := organization.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, a.categories.Save(context.Background(), category))
	return category
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) doMultipart(t *testing.T, path, token, fieldName, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func uuidString() string {
	return uuid.NewString()
}

// decodeData unmarshals the data field of a response envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// errorCode extracts the error code of a failed response
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error.Code
}
