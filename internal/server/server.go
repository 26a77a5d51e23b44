package server

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/oranie/livechat/internal/chat"
	"github.com/oranie/livechat/internal/config"
	"github.com/oranie/livechat/internal/domain"
	apperrors "github.com/oranie/livechat/internal/errors"
	"github.com/oranie/livechat/web"
)

const latestCommentCount = 20

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	comments     domain.CommentStore
	diary        domain.DiaryStore
	channel      *chat.Handler
	chatTemplate *template.Template
	clock        clockwork.Clock
	startTime    time.Time
}

func NewServer(cfg *config.Config, comments domain.CommentStore, diary domain.DiaryStore, channel *chat.Handler, clock clockwork.Clock) (*Server, error) {
	chatTmpl, err := template.ParseFS(web.TemplateFiles, "templates/livechat.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chat template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:         e,
		config:       cfg,
		comments:     comments,
		diary:        diary,
		channel:      channel,
		chatTemplate: chatTmpl,
		clock:        clock,
		startTime:    clock.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
