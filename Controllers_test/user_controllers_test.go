package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/controllers"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userCtrl := controllers.NewUserController(db)
	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", map[string]interface{}{
		"name":     "Caja Uno",
		"email":    "caja@chilaquiles.mx",
		"password": "supersecreto",
		"role":     "STAFF",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/login", map[string]interface{}{
		"email":    "caja@chilaquiles.mx",
		"password": "supersecreto",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "STAFF", user["role"])
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", map[string]interface{}{
		"name":     "Intruso",
		"email":    "x@chilaquiles.mx",
		"password": "supersecreto",
		"role":     "CUSTOMER",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	doJSON(t, r, "POST", "/register", map[string]interface{}{
		"name":     "Caja",
		"email":    "caja@chilaquiles.mx",
		"password": "supersecreto",
		"role":     "STAFF",
	})

	w := doJSON(t, r, "POST", "/login", map[string]interface{}{
		"email":    "caja@chilaquiles.mx",
		"password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
