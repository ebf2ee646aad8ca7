package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/pscheid92/kudos/internal/platform/errors"
)

type createActorRequest struct {
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

func (s *Server) handleCreateActor(c echo.Context) error {
	var req createActorRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	actor, err := s.app.CreateActor(c.Request().Context(), req.Handle, req.AvatarURL, req.Bio)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, actor)
}

func (s *Server) handleGetActor(c echo.Context) error {
	actorID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	actor, err := s.app.GetActor(c.Request().Context(), actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, actor)
}

func (s *Server) handleListActors(c echo.Context) error {
	actors, err := s.app.ListActors(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"actors": actors})
}

type createPostRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleCreatePost(c echo.Context) error {
	authorID, err := actorFromHeader(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	post, err := s.app.CreatePost(c.Request().Context(), authorID, req.Body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

func (s *Server) handleGetPost(c echo.Context) error {
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	post, err := s.app.GetPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

func (s *Server) handleListPosts(c echo.Context) error {
	posts, err := s.app.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"posts": posts})
}

type createCommentRequest struct {
	Body     string     `json:"body"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (s *Server) handleCreateComment(c echo.Context) error {
	authorID, err := actorFromHeader(c)
	if err != nil {
		return err
	}

	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	comment, err := s.app.CreateComment(c.Request().Context(), authorID, postID, req.ParentID, req.Body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, comment)
}
