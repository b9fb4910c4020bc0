package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/internal/webserver"
	"github.com/farmanet/asisbot/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/login", login)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var operator domain.SysOpr
	err := GetDB(c).Where("username = ?", strings.TrimSpace(payload.Username)).First(&operator).Error
	if err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_LOGIN", "Invalid username or password", nil)
	}
	if !strings.EqualFold(operator.Status, common.ENABLED) {
		return fail(c, http.StatusUnauthorized, "DISABLED", "Account is disabled", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_LOGIN", "Invalid username or password", nil)
	}

	claims := jwt.MapClaims{
		"uid":   operator.ID,
		"uname": operator.Username,
		"level": operator.Level,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(GetAppCtx(c).Config().Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token":    signed,
		"username": operator.Username,
		"level":    operator.Level,
	})
}
