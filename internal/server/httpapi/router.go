// Package httpapi exposes the services over HTTP/JSON with gin. All /api
// routes except login and logout require a session cookie carrying a JWT.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// RouterConfig carries the collaborators of the HTTP layer. Nil services
// leave their routes unregistered.
type RouterConfig struct {
	Logger         logging.Logger
	Cookie         CookieConfig
	AllowedOrigins []string

	Auth       Authenticator
	Review     Reviewer
	Vocabulary Vocabulary
	Importer   VocabularyImporter
	Phrases    Phrases
	Progress   Progress
	Books      BookImporter
	Layout     Layout
	Icons      Icons
	DB         Pinger
}

type Server struct {
	logger     logging.Logger
	cookie     CookieConfig
	auth       Authenticator
	review     Reviewer
	vocabulary Vocabulary
	importer   VocabularyImporter
	phrases    Phrases
	progress   Progress
	books      BookImporter
	layout     Layout
	icons      Icons
	db         Pinger
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{
		logger:     cfg.Logger.With("module", "http"),
		cookie:     cfg.Cookie,
		auth:       cfg.Auth,
		review:     cfg.Review,
		vocabulary: cfg.Vocabulary,
		importer:   cfg.Importer,
		phrases:    cfg.Phrases,
		progress:   cfg.Progress,
		books:      cfg.Books,
		layout:     cfg.Layout,
		icons:      cfg.Icons,
		db:         cfg.DB,
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	s := NewServer(cfg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Requested-With", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", s.Health)
	if s.icons != nil {
		r.GET("/icons/:filename", s.GetIcon)
	}

	api := r.Group("/api")
	api.POST("/register", s.Register)
	api.POST("/login", s.Login)
	api.POST("/logout", s.Logout)

	protected := api.Group("")
	protected.Use(s.RequireSession())
	{
		protected.GET("/me", s.Me)

		if s.review != nil {
			protected.GET("/review/:kind/next", s.NextItem)
			protected.GET("/review/:kind/count", s.ReviewedCount)
			protected.PUT("/review/:kind/:id/status", s.SetStatus)
		}

		if s.phrases != nil {
			protected.GET("/phrases", s.ListPhrases)
			protected.GET("/phrases/:id", s.GetPhrase)
			protected.POST("/phrases", s.CreatePhrase)
			protected.PUT("/phrases/:id", s.UpdatePhrase)
		}

		if s.vocabulary != nil {
			protected.GET("/syllables", s.ListSyllables)
			protected.GET("/syllables/:id", s.GetSyllable)
			protected.POST("/syllables", s.CreateSyllable)
			protected.PUT("/syllables/:id", s.UpdateSyllable)
			protected.POST("/syllables/in-text", s.SyllablesInText)
		}
		if s.importer != nil {
			protected.POST("/syllables/import", s.ImportSyllables)
		}

		if s.progress != nil {
			protected.GET("/books", s.ListBooks)
			protected.GET("/books/last", s.LastOpenedBook)
			protected.GET("/books/:id", s.GetBook)
			protected.GET("/books/:id/bounds", s.BookBounds)
			protected.PUT("/books/:id/position", s.SavePosition)
			protected.GET("/books/:id/paragraphs/:paragraph", s.GetParagraph)
		}
		if s.books != nil {
			protected.POST("/books", s.ImportBook)
		}

		if s.layout != nil {
			protected.GET("/pages/start", s.StartPage)
			protected.POST("/transitions", s.RecordTransition)
		}

		if s.icons != nil {
			protected.POST("/icons", s.UploadIcon)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "route not found", Code: "not_found"}})
	})
	return r
}
