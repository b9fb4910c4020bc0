package adminapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmanet/asisbot/config"
	"github.com/farmanet/asisbot/internal/app"
	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/internal/webserver"
	"github.com/farmanet/asisbot/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func setupAdminTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := *config.DefaultAppConfig
	application := app.NewApplication(&cfg)
	application.OverrideDB(db)

	webserver.Init(application)
	InitRouter()

	hashed, err := bcrypt.GenerateFromPassword([]byte("asisbot"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: "admin",
		Password: string(hashed),
		Level:    "super",
		Status:   common.ENABLED,
		Realname: "administrator",
	}).Error)

	return db
}

func doJSON(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	webserver.Echo().ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T) string {
	t.Helper()
	rec := doJSON(http.MethodPost, "/api/login", `{"username":"admin","password":"asisbot"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.Data.Token)
	return result.Data.Token
}

func TestLoginRejectsBadPassword(t *testing.T) {
	setupAdminTest(t)

	rec := doJSON(http.MethodPost, "/api/login", `{"username":"admin","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	setupAdminTest(t)

	rec := doJSON(http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCategoryLifecycle(t *testing.T) {
	db := setupAdminTest(t)
	token := loginToken(t)

	rec := doJSON(http.MethodPost, "/api/categories", `{"name":"Paracetamol"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Unique name constraint
	rec = doJSON(http.MethodPost, "/api/categories", `{"name":"Paracetamol"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var category domain.Category
	require.NoError(t, db.Where("name = ?", "Paracetamol").First(&category).Error)

	// A referenced category cannot be deleted
	require.NoError(t, db.Create(&domain.Product{
		ID:         common.UUIDint64(),
		Name:       "Kitadol 500mg",
		CategoryID: category.ID,
		Stock:      10,
		Price:      1500,
	}).Error)
	rec = doJSON(http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, db.Where("name = ?", "Kitadol 500mg").Delete(&domain.Product{}).Error)
	rec = doJSON(http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProductCreateRequiresExistingCategory(t *testing.T) {
	db := setupAdminTest(t)
	token := loginToken(t)

	rec := doJSON(http.MethodPost, "/api/products",
		`{"name":"Kitadol 500mg","category_id":"999","stock":10,"price":1500}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cid := common.UUIDint64()
	require.NoError(t, db.Create(&domain.Category{ID: cid, Name: "Paracetamol"}).Error)

	body := fmt.Sprintf(`{"name":"Kitadol 500mg","description":"Analgésico.","category_id":"%d","stock":10,"price":1500}`, cid)
	rec = doJSON(http.MethodPost, "/api/products", body, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	db.Model(&domain.Product{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestListConversationsFiltersByDate(t *testing.T) {
	db := setupAdminTest(t)
	token := loginToken(t)

	old := domain.Conversation{ID: common.UUIDint64(), UserMessage: "hola", BotResponse: "r1",
		CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := domain.Conversation{ID: common.UUIDint64(), UserMessage: "resfriado", BotResponse: "r2",
		CreatedAt: time.Now()}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&recent).Error)

	start := time.Now().Add(-24 * time.Hour).Format("2006-01-02 15:04:05")
	rec := doJSON(http.MethodGet, "/api/conversations?start="+strings.ReplaceAll(start, " ", "%20"), "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Data  []domain.Conversation `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, "resfriado", result.Data[0].UserMessage)
}

func TestImportProductsCSV(t *testing.T) {
	db := setupAdminTest(t)
	token := loginToken(t)

	csvBody := "name,description,category,stock,price,image_url\n" +
		"Kitadol 500mg,Analgésico.,Paracetamol,100,1500,\n" +
		"Gaviscon,Alivio de la acidez.,Antiácido,30,4500,\n" +
		",,Paracetamol,1,1,\n" +
		"N/A,placeholder,Antiácido,5,100,\n"

	var buf strings.Builder
	boundary := "testboundary"
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString(`Content-Disposition: form-data; name="file"; filename="catalog.csv"` + "\r\n")
	buf.WriteString("Content-Type: text/csv\r\n\r\n")
	buf.WriteString(csvBody)
	buf.WriteString("\r\n--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	webserver.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Data importReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Data.Created)
	assert.Equal(t, 2, result.Data.Skipped)

	var categories int64
	db.Model(&domain.Category{}).Count(&categories)
	assert.EqualValues(t, 2, categories)
}
