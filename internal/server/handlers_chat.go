package server

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	apperrors "github.com/oranie/livechat/internal/errors"
)

type commentAddRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

// probeChatRoom keeps status-probe writes out of the visible feed; the read
// endpoints only query the default room.
const probeChatRoom = "chat-room"

// handleIndex is the status probe. It performs a real comment write so a
// green probe means the whole write path (including the store) works.
func (s *Server) handleIndex(c echo.Context) error {
	stored, err := s.comments.PutComment(c.Request().Context(), "oranie", "done", probeChatRoom)
	if err != nil {
		return apperrors.ExternalError("status probe write failed", err)
	}

	return c.JSON(200, map[string]string{
		"status": fmt.Sprintf("server status is good! time=%s", stored.Time),
	})
}

// handleChatPage serves the demo chat page with the current host substituted
// into the WebSocket endpoint.
func (s *Server) handleChatPage(c echo.Context) error {
	data := map[string]any{
		"Host": c.Request().Host,
	}

	var buf bytes.Buffer
	if err := s.chatTemplate.Execute(&buf, data); err != nil {
		slog.Error("Chat template execution failed", "error", err)
		return c.String(500, "Failed to render page")
	}
	return c.HTMLBlob(200, buf.Bytes())
}

func (s *Server) handleCommentAdd(c echo.Context) error {
	var req commentAddRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Name == "" {
		return apperrors.ValidationError("name is required")
	}
	if req.Comment == "" {
		return apperrors.ValidationError("comment is required")
	}

	stored, err := s.comments.PutComment(c.Request().Context(), req.Name, req.Comment, s.config.DefaultChatRoom)
	if err != nil {
		return err
	}

	return c.JSON(200, map[string]string{
		"state": "Comment add OK",
		"time":  stored.Time,
	})
}

func (s *Server) handleCommentsLatest(c echo.Context) error {
	comments, err := s.comments.GetLatestComments(c.Request().Context(), s.config.DefaultChatRoom, latestCommentCount)
	if err != nil {
		return err
	}
	return c.JSON(200, map[string]any{"response": comments})
}

func (s *Server) handleCommentsAll(c echo.Context) error {
	comments, err := s.comments.GetAllComments(c.Request().Context(), s.config.DefaultChatRoom)
	if err != nil {
		return err
	}
	return c.JSON(200, map[string]any{"response": comments})
}

func (s *Server) handleCommentsSince(c echo.Context) error {
	since := c.Param("since")
	if since == "" {
		return apperrors.ValidationError("since is required")
	}

	comments, err := s.comments.GetRangeComments(c.Request().Context(), s.config.DefaultChatRoom, since)
	if err != nil {
		return err
	}
	return c.JSON(200, map[string]any{"response": comments})
}
