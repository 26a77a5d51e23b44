package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Root - server status probe that exercises the write path
	s.echo.GET("/", s.handleIndex)

	// Demo chat page
	s.echo.GET("/chat", s.handleChatPage)

	// Comment API
	s.echo.POST("/chat/comments/add", s.handleCommentAdd)
	s.echo.GET("/chat/comments/latest", s.handleCommentsLatest)
	s.echo.GET("/chat/comments/all", s.handleCommentsAll)
	s.echo.GET("/chat/comments/latest/:since", s.handleCommentsSince)

	// Diary API
	s.echo.POST("/diary/save", s.handleDiarySave)
	s.echo.GET("/diary/entries/:user_name", s.handleDiaryEntries)
	s.echo.POST("/diary/delete", s.handleDiaryDelete)

	// Live channel
	s.echo.GET("/ws", s.handleWebSocket)
}
