// Package chatapi serves the public storefront chat endpoint.
package chatapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmanet/asisbot/internal/assistant"
	"github.com/farmanet/asisbot/internal/webserver"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

var pipeline *assistant.Pipeline

// InitRouter attaches the chat endpoint. The route lives under /api
// but is served without a token.
func InitRouter(p *assistant.Pipeline) {
	pipeline = p
	webserver.ApiPOST("/chat", handleChat)
}

// handleChat always answers 200 with a safe reply; there is no error
// status contract on this endpoint. An unparseable body is treated as
// an empty message and run through the normal pipeline.
func handleChat(c echo.Context) error {
	var req chatRequest
	_ = c.Bind(&req)

	reply := pipeline.Answer(c.Request().Context(), req.Message)
	return c.JSON(http.StatusOK, chatResponse{Response: reply})
}
