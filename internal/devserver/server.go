package devserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
)

const (
	roleUser  = "user"
	roleAdmin = "admin"

	statusSuccess = "Success"

	defaultTokenTTL = 24 * time.Hour
	defaultRPS      = 50
)

// Options configure a Server.
type Options struct {
	Secret   string // HS256 signing key; required
	TokenTTL time.Duration
	RPS      float64 // per-client request rate; zero uses the default
	Log      *zap.Logger
	Now      func() time.Time
}

// Server is an in-memory implementation of the catalog REST API.
type Server struct {
	lib      *library
	secret   []byte
	tokenTTL time.Duration
	rps      float64
	log      *zap.Logger
	now      func() time.Time
}

// New returns an empty server.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("devserver: secret required")
	}
	s := &Server{
		secret:   []byte(opts.Secret),
		tokenTTL: opts.TokenTTL,
		rps:      opts.RPS,
		log:      opts.Log,
		now:      opts.Now,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = defaultTokenTTL
	}
	if s.rps <= 0 {
		s.rps = defaultRPS
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.lib = newLibrary(s.now)
	return s, nil
}

// AddBook stores a book directly, bypassing auth. Used for seeding.
func (s *Server) AddBook(in catalog.BookInput) catalog.Book {
	return s.lib.add(in, "")
}

// AddUser registers an account with the given role ("user" or "admin").
func (s *Server) AddUser(in catalog.SignUpInput, role string) (string, error) {
	if role != roleUser && role != roleAdmin {
		return "", errors.Errorf("devserver: unknown role %q", role)
	}
	u, err := s.lib.register(in, role)
	if err != nil {
		return "", errors.Wrapf(err, "add user %s", in.Email)
	}
	return u.ID, nil
}

// Router builds the HTTP handler.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &echoValidator{v: validator.New()}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "OK") })

	api := e.Group("/api/v1",
		middleware.RequestID(),
		middleware.RequestLoggerWithConfig(requestLoggerConfig(s.log)),
		newRateLimiter(s.rps),
	)
	api.GET("/get-all-books", s.listBooks)
	api.GET("/get-recent-books", s.recentBooks)
	api.GET("/get-book-by-id/:id", s.getBook)
	api.POST("/sign-up", s.signUp)
	api.POST("/sign-in", s.signIn)

	admin := api.Group("", s.requireAdmin)
	admin.POST("/add-book", s.addBook)
	admin.PUT("/update-book/:id", s.updateBook)
	admin.DELETE("/delete-book/:id", s.deleteBook)

	return e
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	e := s.Router()
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "devserver start")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "devserver shutdown")
	}
	return nil
}

type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, envelope{Status: statusSuccess, Message: message, Data: data})
}

func (s *Server) listBooks(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	if catalog.IsFilterAll(category) {
		category = ""
	}
	return respond(c, "", s.lib.list(category))
}

func (s *Server) recentBooks(c echo.Context) error {
	return respond(c, "", s.lib.recent())
}

func (s *Server) getBook(c echo.Context) error {
	book, err := s.lib.get(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, "", book)
}

type bookRequest struct {
	CoverURL  string `json:"url" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Language  string `json:"language" validate:"required,oneof=English Hindi"`
	Available bool   `json:"available"`
}

func (s *Server) addBook(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please fill in all fields.")
	}
	if !catalog.Contains(catalog.BookCategories, req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category")
	}
	addedBy, _ := c.Get(ctxUserID).(string)
	book := s.lib.add(catalog.BookInput(req), addedBy)
	s.log.Info("book added", zap.String("id", book.ID), zap.String("title", book.Title))
	return c.JSON(http.StatusCreated, envelope{Status: statusSuccess, Message: "Book added successfully", Data: book})
}

func (s *Server) updateBook(c echo.Context) error {
	var patch catalog.BookPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if patch.Category != nil && !catalog.Contains(catalog.BookCategories, *patch.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category")
	}
	book, err := s.lib.update(c.Param("id"), patch)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, "Book updated successfully", book)
}

func (s *Server) deleteBook(c echo.Context) error {
	if err := s.lib.remove(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return respond(c, "Book deleted successfully", nil)
}

type signUpRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Username string `json:"username" validate:"required,min=4"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Server) signUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sign-up details")
	}
	if _, err := s.lib.register(catalog.SignUpInput(req), roleUser); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account created",
	})
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) signIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please fill in all fields.")
	}
	u, err := s.lib.authenticate(req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	token, err := s.issueToken(u)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, catalog.SignInResult{Token: token, ID: u.ID, Role: u.Role})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, errBookNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Book not found")
	case errors.Is(err, errUserExists):
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	case errors.Is(err, errBadCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
