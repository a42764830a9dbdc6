package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/anonto42/story-creator/backend/pkg/firebase"
	"github.com/anonto42/story-creator/backend/pkg/mailer"
	"github.com/anonto42/story-creator/backend/pkg/resettoken"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetSentMessage    = "If an account exists for that email, a password reset link has been sent."
	resetExpiredMessage = "The reset link has expired."
	resetInvalidMessage = "Invalid reset link."
)

// TokenVerifier verifies Firebase ID tokens; *firebase.Verifier satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthHandler handles sign-in, registration, password and account pages
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *session.Manager
	resetTokens    *resettoken.Signer
	mailer         mailer.Sender
	firebaseAuth   TokenVerifier
	baseURL        string
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which
// disables federated login.
func NewAuthHandler(
	userRepo repositories.UserRepository,
	sessions *session.Manager,
	resetTokens *resettoken.Signer,
	mail mailer.Sender,
	firebaseAuth TokenVerifier,
	baseURL string,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		resetTokens:    resetTokens,
		mailer:         mail,
		firebaseAuth:   firebaseAuth,
		baseURL:        strings.TrimRight(baseURL, "/"),
		logger:         logger.Named("AuthHandler"),
	}
}

// RegisterAuthRoutes registers the routes reachable without a session
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/login", h.LoginPage)
	g.POST("/login", h.Login)
	g.GET("/logout", h.Logout)
	g.GET("/register", h.RegisterPage)
	g.POST("/register", h.Register)
	g.GET("/register-success", h.RegisterSuccess)
	g.GET("/forgot_password", h.ForgotPasswordPage)
	g.POST("/forgot_password", h.ForgotPassword)
	g.GET("/reset_password/:token", h.ResetPasswordPage)
	g.POST("/reset_password/:token", h.ResetPassword)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/auth/firebase-login", h.FirebaseLogin)
}

// RegisterAccountRoutes registers the routes of a signed-in user
func (h *AuthHandler) RegisterAccountRoutes(g *echo.Group) {
	g.GET("/switch_dashboard", h.SwitchDashboard)
	g.GET("/change_password", h.ChangePasswordPage)
	g.POST("/change_password", h.ChangePassword)
	g.GET("/edit-account", h.EditAccountPage)
	g.POST("/edit-account", h.EditAccount)
}

// renderLogin shows the login form with a fresh captcha.
func (h *AuthHandler) renderLogin(c echo.Context, status int, username, errMsg string) error {
	code, err := h.sessions.RotateCaptcha(c)
	if err != nil {
		return internalError(h.logger, "Failed to prepare login form", err)
	}
	return c.Render(status, "login.html", echo.Map{
		"Captcha":  code,
		"Username": username,
		"Error":    errMsg,
	})
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.renderLogin(c, http.StatusOK, "", "")
}

// Login checks the captcha, then the credentials, then the account status.
// Every attempt rotates the captcha.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.renderLogin(c, http.StatusBadRequest, "", "Invalid request")
	}
	req.Username = strings.TrimSpace(req.Username)

	if !session.CaptchaMatches(h.sessions.Captcha(c), strings.TrimSpace(req.Captcha)) {
		loginsTotal.WithLabelValues("invalid_captcha").Inc()
		return h.renderLogin(c, http.StatusBadRequest, req.Username, models.ErrInvalidCaptcha.Error())
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return internalError(h.logger, "Failed to load user", err)
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		return h.renderLogin(c, http.StatusUnauthorized, req.Username, models.ErrInvalidCredentials.Error())
	}
	if user.IsLocked() {
		loginsTotal.WithLabelValues("locked").Inc()
		return h.renderLogin(c, http.StatusForbidden, req.Username, models.ErrAccountLocked.Error())
	}

	role, err := h.sessions.Login(c, user)
	if err != nil {
		return internalError(h.logger, "Failed to start session", err)
	}
	loginsTotal.WithLabelValues("success").Inc()
	h.logger.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", role))
	return c.Redirect(http.StatusFound, session.DashboardPath(role))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Clear(c); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}
	return c.Redirect(http.StatusFound, "/login")
}

// Dashboard sends the caller to the landing page of the active role.
func (h *AuthHandler) Dashboard(c echo.Context) error {
	auth := session.FromContext(c)
	if auth == nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	return c.Redirect(http.StatusFound, session.DashboardPath(auth.Role))
}

// SwitchDashboard toggles an admin between the admin and author dashboards.
// The switch lives in the session only.
func (h *AuthHandler) SwitchDashboard(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}

	var role, original string
	switch {
	case auth.Role == models.RoleAdmin:
		role, original = models.RoleAuthor, models.RoleAdmin
	case auth.Role == models.RoleAuthor && auth.IsSwitchedAdmin():
		role, original = models.RoleAdmin, ""
	default:
		return echo.NewHTTPError(http.StatusForbidden, models.ErrSwitchNotAllowed.Error())
	}

	if err := h.sessions.SetRole(c, role, original); err != nil {
		return internalError(h.logger, "Failed to switch dashboard", err)
	}
	return c.Redirect(http.StatusFound, session.DashboardPath(role))
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", echo.Map{"Form": models.RegisterRequest{}})
}

// checkNewPassword applies the confirmation and length rules shared by
// registration, reset and change.
func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return models.ErrPasswordMismatch
	}
	if len(password) < 6 {
		return models.ErrPasswordTooShort
	}
	return nil
}

// Register creates a reader account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", echo.Map{"Form": req, "Error": "Invalid request"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	fail := func(msg string) error {
		req.Password, req.ConfirmPassword = "", ""
		return c.Render(http.StatusBadRequest, "register.html", echo.Map{"Form": req, "Error": msg})
	}

	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return fail(err.Error())
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(validationMessage(err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(h.logger, "Failed to hash password", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleReader,
		Status:   models.StatusActive,
		Country:  models.StringPtr(req.Country),
		State:    models.StringPtr(req.State),
		City:     models.StringPtr(req.City),
		Gender:   models.StringPtr(req.Gender),
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, models.ErrUserExists) {
			return fail(err.Error())
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		return fail("Registration failed. Please try again.")
	}

	registrationsTotal.Inc()
	h.logger.Info("User registered", zap.Uint("user_id", user.ID))
	return c.Redirect(http.StatusFound, "/register-success")
}

func (h *AuthHandler) RegisterSuccess(c echo.Context) error {
	return c.Render(http.StatusOK, "register_success.html", echo.Map{})
}

func (h *AuthHandler) ForgotPasswordPage(c echo.Context) error {
	return c.Render(http.StatusOK, "forgot_password.html", echo.Map{})
}

// ForgotPassword mails a reset link. The answer is the same whether or not
// the email belongs to an account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	if email == "" {
		return c.Render(http.StatusBadRequest, "forgot_password.html", echo.Map{"Error": "Email is required"})
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), email)
	switch {
	case err == nil:
		h.sendResetLink(user)
	case !errors.Is(err, models.ErrNotFound):
		h.logger.Error("Failed to look up reset email", zap.Error(err))
	}
	return c.Render(http.StatusOK, "forgot_password.html", echo.Map{"Message": resetSentMessage})
}

func (h *AuthHandler) sendResetLink(user *models.User) {
	token, err := h.resetTokens.Generate(user.Email)
	if err != nil {
		h.logger.Error("Failed to generate reset token", zap.Error(err))
		return
	}
	link := fmt.Sprintf("%s/reset_password/%s", h.baseURL, token)
	body := fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s\n", user.Username, link)
	if err := h.mailer.Send(user.Email, "Password reset", body); err != nil {
		h.logger.Error("Failed to send reset email", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}

// verifyResetToken returns the email of token or the message to show.
func (h *AuthHandler) verifyResetToken(token string) (string, string) {
	email, err := h.resetTokens.Verify(token)
	switch {
	case errors.Is(err, resettoken.ErrTokenExpired):
		return "", resetExpiredMessage
	case err != nil:
		return "", resetInvalidMessage
	}
	return email, ""
}

func (h *AuthHandler) ResetPasswordPage(c echo.Context) error {
	token := c.Param("token")
	if _, msg := h.verifyResetToken(token); msg != "" {
		return c.Render(http.StatusBadRequest, "reset_password.html", echo.Map{"Error": msg})
	}
	return c.Render(http.StatusOK, "reset_password.html", echo.Map{"Token": token})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	email, msg := h.verifyResetToken(token)
	if msg != "" {
		return c.Render(http.StatusBadRequest, "reset_password.html", echo.Map{"Error": msg})
	}

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "reset_password.html", echo.Map{"Token": token, "Error": "Invalid request"})
	}
	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return c.Render(http.StatusBadRequest, "reset_password.html", echo.Map{"Token": token, "Error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(h.logger, "Failed to hash password", err)
	}
	if err := h.userRepository.UpdatePasswordByEmail(c.Request().Context(), email, string(hashedPassword)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Render(http.StatusBadRequest, "reset_password.html", echo.Map{"Error": resetInvalidMessage})
		}
		return internalError(h.logger, "Failed to reset password", err)
	}
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ChangePasswordPage(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "change_password.html", echo.Map{"Dashboard": session.DashboardPath(auth.Role)})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	render := func(status int, key, msg string) error {
		return c.Render(status, "change_password.html", echo.Map{key: msg, "Dashboard": session.DashboardPath(auth.Role)})
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return render(http.StatusBadRequest, "Error", "Invalid request")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return render(http.StatusBadRequest, "Error", "Current password is incorrect")
	}
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return render(http.StatusBadRequest, "Error", err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(h.logger, "Failed to hash password", err)
	}
	if err := h.userRepository.UpdatePassword(c.Request().Context(), user.ID, string(hashedPassword)); err != nil {
		return internalError(h.logger, "Failed to update password", err)
	}
	return render(http.StatusOK, "Message", "Password updated successfully")
}

func accountForm(u *models.User) models.EditAccountRequest {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return models.EditAccountRequest{
		Username: u.Username,
		Email:    u.Email,
		Country:  deref(u.Country),
		State:    deref(u.State),
		City:     deref(u.City),
		Gender:   deref(u.Gender),
	}
}

func (h *AuthHandler) EditAccountPage(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load user", err)
	}
	return c.Render(http.StatusOK, "edit_account.html", echo.Map{
		"Form":      accountForm(user),
		"Dashboard": session.DashboardPath(auth.Role),
	})
}

// EditAccount updates profile fields. Role and status are not editable here.
func (h *AuthHandler) EditAccount(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}

	var req models.EditAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	render := func(status int, key, msg string) error {
		return c.Render(status, "edit_account.html", echo.Map{
			"Form":      req,
			key:         msg,
			"Dashboard": session.DashboardPath(auth.Role),
		})
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return render(http.StatusBadRequest, "Error", validationMessage(err))
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load user", err)
	}
	user.Username = req.Username
	user.Email = req.Email
	user.Country = models.StringPtr(req.Country)
	user.State = models.StringPtr(req.State)
	user.City = models.StringPtr(req.City)
	user.Gender = models.StringPtr(req.Gender)

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, models.ErrUserExists) {
			return render(http.StatusBadRequest, "Error", err.Error())
		}
		return internalError(h.logger, "Failed to update account", err)
	}
	return render(http.StatusOK, "Message", "Account updated successfully")
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" form:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a Firebase ID token for a session. Unknown users are
// linked by email or created as readers.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	identity, err := h.firebaseAuth.Verify(ctx, req.IDToken)
	if err != nil {
		h.logger.Warn("Rejected Firebase ID token", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
	if errors.Is(err, models.ErrNotFound) {
		user, err = h.linkFirebaseUser(ctx, identity)
	}
	if err != nil {
		return internalError(h.logger, "Failed to resolve Firebase user", err)
	}
	if user.IsLocked() {
		loginsTotal.WithLabelValues("locked").Inc()
		return echo.NewHTTPError(http.StatusForbidden, models.ErrAccountLocked.Error())
	}

	role, err := h.sessions.Login(c, user)
	if err != nil {
		return internalError(h.logger, "Failed to start session", err)
	}
	loginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"redirect": session.DashboardPath(role),
	})
}

func (h *AuthHandler) linkFirebaseUser(ctx context.Context, identity *firebase.Identity) (*models.User, error) {
	uid, email, name := identity.UID, identity.Email, identity.Name
	if email == "" {
		return nil, errors.New("firebase token carries no email")
	}

	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		user.FirebaseUID = &uid
		if err := h.userRepository.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("link firebase uid: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	username := strings.TrimSpace(name)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	user = &models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleReader,
		Status:      models.StatusActive,
		FirebaseUID: &uid,
	}
	err = h.userRepository.CreateUser(ctx, user)
	if errors.Is(err, models.ErrUserExists) {
		suffix := uid
		if len(suffix) > 6 {
			suffix = suffix[:6]
		}
		user.Username = username + "_" + suffix
		err = h.userRepository.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("create firebase user: %w", err)
	}
	registrationsTotal.Inc()
	return user, nil
}

// validationMessage turns the first validator error into a form message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
