// File: internal/handler/email/email.go
package email

import (
	"net/http"

	"getunitycodes/internal/api"
	"getunitycodes/internal/mailer"

	"github.com/labstack/echo/v4"
)

// SendEmailHandler 直接寄出一封純文字信件
// @Summary     寄送 Email
// @Tags        email
// @Accept      json
// @Produce     json
// @Param       body body     api.SendEmailRequest true "收件者、主旨與內容"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sendEmail [post]
func SendEmailHandler(m mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SendEmailRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		}
		msg := mailer.Message{To: req.To, Subject: req.Subject, Text: req.Text}
		if err := msg.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Missing required fields: 'to', 'subject', or 'text'"})
		}
		if err := m.Send(c.Request().Context(), msg); err != nil {
			c.Logger().Errorf("sendEmail: %v", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to send email"})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Email sent successfully"})
	}
}
