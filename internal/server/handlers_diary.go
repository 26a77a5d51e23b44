package server

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/oranie/livechat/internal/errors"
)

type diarySaveRequest struct {
	UserName     string `json:"user_name"`
	OriginalName string `json:"original_name"`
	OriginalTime string `json:"original_time"`
	Comment      string `json:"comment"`
	ChatRoom     string `json:"chat_room"`
}

type diaryDeleteRequest struct {
	UserName  string `json:"user_name"`
	SavedTime string `json:"saved_time"`
}

func (s *Server) handleDiarySave(c echo.Context) error {
	var req diarySaveRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserName == "" {
		return apperrors.ValidationError("user_name is required")
	}
	if req.OriginalName == "" {
		return apperrors.ValidationError("original_name is required")
	}
	if req.OriginalTime == "" {
		return apperrors.ValidationError("original_time is required")
	}
	if req.Comment == "" {
		return apperrors.ValidationError("comment is required")
	}
	if req.ChatRoom == "" {
		req.ChatRoom = s.config.DefaultChatRoom
	}

	entry, err := s.diary.SaveEntry(c.Request().Context(), req.UserName, req.OriginalName, req.OriginalTime, req.Comment, req.ChatRoom)
	if err != nil {
		return err
	}

	return c.JSON(200, map[string]string{
		"state":      "Diary save OK",
		"saved_time": entry.SavedTime,
	})
}

func (s *Server) handleDiaryEntries(c echo.Context) error {
	user := c.Param("user_name")
	if user == "" {
		return apperrors.ValidationError("user_name is required")
	}

	entries, err := s.diary.GetEntries(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(200, map[string]any{"response": entries})
}

func (s *Server) handleDiaryDelete(c echo.Context) error {
	var req diaryDeleteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserName == "" {
		return apperrors.ValidationError("user_name is required")
	}
	if req.SavedTime == "" {
		return apperrors.ValidationError("saved_time is required")
	}

	// Idempotent: deleting an absent key succeeds and is reported the same.
	if _, err := s.diary.DeleteEntry(c.Request().Context(), req.UserName, req.SavedTime); err != nil {
		return err
	}

	return c.JSON(200, map[string]string{"state": "Diary delete OK"})
}
