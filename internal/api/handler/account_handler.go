package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundwave/accounts-api/internal/api/metrics"
	"github.com/soundwave/accounts-api/internal/core/domain"
	"github.com/soundwave/accounts-api/internal/core/ports"
)

const statusSuccess = "Success"

// bindError maps a Bind failure to a client error. A body sent without a JSON
// content type is read as an empty object, so the caller's required-fields
// message applies.
func bindError(err error, requiredMsg string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
		return domain.Invalid(requiredMsg)
	}
	return domain.Invalid(domain.MsgInvalidPayload)
}

// AccountHandler exposes the credential operations over HTTP. Errors are
// returned as *domain.Error and rendered by the API error handler.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AccountHandler) Register(c echo.Context) (err error) {
	defer func() { metrics.RegistrationsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err, domain.MsgAllFieldsRequired)
	}
	if err := c.Validate(&req); err != nil {
		return domain.Invalid(domain.MsgAllFieldsRequired)
	}

	id, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Status:  statusSuccess,
		Message: "Account created successfully",
		UserID:  id,
	})
}

// Login checks a password against the stored hash. No session token is issued.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AccountHandler) Login(c echo.Context) (err error) {
	defer func() { metrics.LoginsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err, domain.MsgCredentialsRequired)
	}
	if err := c.Validate(&req); err != nil {
		return domain.Invalid(domain.MsgCredentialsRequired)
	}

	account, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Status:  statusSuccess,
		Message: "Login successful",
		User: accountView{
			ID:    account.ID,
			Name:  account.Name,
			Email: account.Email,
			Phone: account.Phone,
		},
	})
}

// CheckEmail reports whether an email is registered. Used by the client
// before it offers a password reset.
//
// @Summary      Check whether an email is registered
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      checkEmailRequest  true  "Email to probe"
// @Success      200   {object}  checkEmailResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  checkEmailResponse
// @Failure      500   {object}  errorResponse
// @Router       /check-email [post]
func (h *AccountHandler) CheckEmail(c echo.Context) error {
	var req checkEmailRequest
	if err := c.Bind(&req); err != nil {
		metrics.EmailChecksTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return bindError(err, domain.MsgEmailRequired)
	}
	if err := c.Validate(&req); err != nil {
		metrics.EmailChecksTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.Invalid(domain.MsgEmailRequired)
	}

	exists, err := h.service.CheckEmail(c.Request().Context(), req.Email)
	if err != nil {
		metrics.EmailChecksTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		return err
	}

	if !exists {
		metrics.EmailChecksTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return c.JSON(http.StatusNotFound, checkEmailResponse{Exists: false, Message: "Email not found"})
	}
	metrics.EmailChecksTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return c.JSON(http.StatusOK, checkEmailResponse{Exists: true, Message: "Email found"})
}

// ResetPassword replaces the password of the account owning the email.
//
// @Summary      Reset a password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email and new password"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /reset-password [post]
func (h *AccountHandler) ResetPassword(c echo.Context) (err error) {
	defer func() { metrics.PasswordResetsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err, domain.MsgResetFieldsRequired)
	}
	if err := c.Validate(&req); err != nil {
		if failedTag(err) == "min" {
			return domain.Invalid(domain.MsgPasswordTooShort)
		}
		return domain.Invalid(domain.MsgResetFieldsRequired)
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statusResponse{
		Status:  statusSuccess,
		Message: "Password updated successfully",
	})
}
