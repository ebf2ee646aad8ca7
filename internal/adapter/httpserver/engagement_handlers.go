package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pscheid92/kudos/internal/app"
	"github.com/pscheid92/kudos/internal/domain"
	apperrors "github.com/pscheid92/kudos/internal/platform/errors"
	"github.com/pscheid92/kudos/internal/platform/retry"
)

const actorHeader = "X-Actor-ID"

// handleToggleReaction flips the reaction of the calling actor on a piece
// of content. The toggle itself is atomic in the store; retries here only
// cover transient failures, a lost race surfaces as a conflict.
func (s *Server) handleToggleReaction(c echo.Context) error {
	actorID, err := actorFromHeader(c)
	if err != nil {
		return err
	}

	contentID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if s.rateLimiter != nil {
		allowed, err := s.rateLimiter.Allow(c.Request().Context(), actorID)
		if err != nil {
			return apperrors.InternalError("failed to check rate limit", err)
		}
		if !allowed {
			return apperrors.RateLimitedError("too many reaction toggles, slow down").
				WithField("actor_id", actorID.String())
		}
	}

	ctx := c.Request().Context()
	policy := retry.Policy{
		MaxAttempts:    s.config.ToggleRetryAttempts,
		InitialBackoff: s.config.ToggleRetryBackoff,
	}

	result, err := retry.Do(ctx, policy, classifyToggleError, func() (app.ToggleResult, error) {
		return s.app.ToggleReaction(ctx, actorID, contentID)
	})
	if err != nil {
		var permanent *retry.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// classifyToggleError treats domain outcomes and structured errors as
// permanent; anything else (connection loss, serialization failure) is
// worth another attempt.
func classifyToggleError(err error) retry.Action {
	switch {
	case errors.Is(err, domain.ErrActorNotFound),
		errors.Is(err, domain.ErrContentNotFound),
		errors.Is(err, domain.ErrReactionNotFound),
		errors.Is(err, domain.ErrAlreadyReacted),
		errors.Is(err, domain.ErrInvariantViolation):
		return retry.Stop
	}

	var structured *apperrors.Error
	if errors.As(err, &structured) {
		return retry.Stop
	}

	return retry.Retry
}

func (s *Server) handleCommentTree(c echo.Context) error {
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	thread, err := s.app.CommentTree(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, thread)
}

func (s *Server) handleLeaderboard(c echo.Context) error {
	window, err := windowParam(c, 24*time.Hour, s.config.LeaderboardMaxWindow)
	if err != nil {
		return err
	}

	k, err := limitParam(c, 5, s.config.LeaderboardMaxLimit)
	if err != nil {
		return err
	}

	rows, err := s.app.Leaderboard(c.Request().Context(), window, k)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"window":  window.String(),
		"entries": rows,
	})
}

func (s *Server) handleActorKarma(c echo.Context) error {
	actorID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	window, err := windowParam(c, 24*time.Hour, s.config.LeaderboardMaxWindow)
	if err != nil {
		return err
	}

	report, err := s.app.ActorKarma(c.Request().Context(), actorID, window)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

func actorFromHeader(c echo.Context) (uuid.UUID, error) {
	raw := c.Request().Header.Get(actorHeader)
	if raw == "" {
		return uuid.Nil, apperrors.ValidationError("missing " + actorHeader + " header")
	}

	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid " + actorHeader + " header").
			WithField("value", raw)
	}
	return actorID, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid " + name + " parameter").
			WithField(name, c.Param(name))
	}
	return id, nil
}

// windowParam reads the ?window= query (Go duration syntax) and clamps it
// to the configured maximum. Absent means the default window.
func windowParam(c echo.Context, def, max time.Duration) (time.Duration, error) {
	raw := c.QueryParam("window")
	if raw == "" {
		return def, nil
	}

	window, err := time.ParseDuration(raw)
	if err != nil {
		return 0, apperrors.ValidationError("invalid window parameter, expected a duration like 24h").
			WithField("window", raw)
	}
	if window <= 0 {
		return 0, apperrors.ValidationError("window must be positive").
			WithField("window", raw)
	}
	if window > max {
		window = max
	}
	return window, nil
}

// limitParam reads ?k= and clamps it to the configured maximum.
func limitParam(c echo.Context, def, max int) (int, error) {
	raw := c.QueryParam("k")
	if raw == "" {
		return def, nil
	}

	var k int
	if err := echo.QueryParamsBinder(c).Int("k", &k).BindError(); err != nil {
		return 0, apperrors.ValidationError("invalid k parameter, expected an integer").
			WithField("k", raw)
	}
	if k < 1 {
		return 0, apperrors.ValidationError("k must be at least 1").
			WithField("k", raw)
	}
	if k > max {
		k = max
	}
	return k, nil
}
