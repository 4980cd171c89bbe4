package apiserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/pkg/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    s.config.App.Name,
		"version": s.config.App.Version,
	})
}

// handleRecommend accepts an arbitrary facts payload and returns the ranked
// recommendations. Malformed fields degrade to defaults rather than 400s;
// only an unparseable body is rejected.
func (s *Server) handleRecommend(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.respondError(c, errors.NewBadRequestError("request body must be a JSON object"))
		return
	}

	result, err := s.planner.Recommend(c.Request.Context(), payload)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "generate recommendations"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"targets":         result.Targets,
		"recommendations": result.Ranked,
		"provenance":      result.Provenance,
		"exhausted":       result.Exhausted,
	})
}

func (s *Server) handleRecipe(c *gin.Context) {
	id := c.Param("id")
	recipe, err := s.recipes.FetchRecipe(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, errors.NewNotFoundError("recipe").WithCause(err).WithMetadata("recipe_id", id))
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (s *Server) handleRecipeOfDay(c *gin.Context) {
	recipe, err := s.recipes.FetchRecipeOfDay(c.Request.Context())
	if err != nil {
		s.respondError(c, errors.NewProviderUnavailableError("recipe-of-the-day", err))
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (s *Server) handleKnowledge(c *gin.Context) {
	c.JSON(http.StatusOK, s.rules)
}

// createPlanRequest wraps the facts payload with persistence fields. When
// Save is false the plan is generated and returned without being stored.
type createPlanRequest struct {
	Owner string         `json:"owner"`
	Title string         `json:"title"`
	Save  bool           `json:"save"`
	Facts map[string]any `json:"facts"`
}

func (s *Server) handleCreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.NewBadRequestError("request body must be a JSON object"))
		return
	}
	if req.Facts == nil {
		req.Facts = map[string]any{}
	}

	schedule, err := s.planner.BuildWeeklyPlan(c.Request.Context(), req.Facts)
	if err != nil {
		if err == planner.ErrEmptyCandidatePool {
			s.respondError(c, errors.NewEmptyResultError("filter").WithCause(err))
			return
		}
		s.respondError(c, errors.Wrap(err, "build weekly plan"))
		return
	}

	if !req.Save {
		c.JSON(http.StatusOK, gin.H{"plan": schedule})
		return
	}

	owner := req.Owner
	if owner == "" {
		owner = "anonymous"
	}
	saved, err := s.plans.Save(c.Request.Context(), owner, req.Title, *schedule)
	if err != nil {
		s.respondError(c, errors.NewDatabaseError("save plan", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         saved.ID,
		"owner":      saved.Owner,
		"title":      saved.Title,
		"created_at": saved.CreatedAt,
		"plan":       saved.Schedule,
	})
}

func (s *Server) handleGetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.NewBadRequestError("plan id must be a UUID"))
		return
	}

	plan, err := s.plans.Get(c.Request.Context(), id)
	if err != nil {
		if err == planner.ErrPlanNotFound {
			s.respondError(c, errors.NewPlanNotFoundError(id.String()))
			return
		}
		s.respondError(c, errors.NewDatabaseError("load plan", err))
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleListPlans(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		s.respondError(c, errors.NewBadRequestError("owner query parameter is required"))
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(c, errors.NewBadRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	list, err := s.plans.List(c.Request.Context(), owner, limit)
	if err != nil {
		s.respondError(c, errors.NewDatabaseError("list plans", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": list})
}

func (s *Server) handleDeletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.NewBadRequestError("plan id must be a UUID"))
		return
	}

	if err := s.plans.Delete(c.Request.Context(), id); err != nil {
		if err == planner.ErrPlanNotFound {
			s.respondError(c, errors.NewPlanNotFoundError(id.String()))
			return
		}
		s.respondError(c, errors.NewDatabaseError("delete plan", err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) respondError(c *gin.Context, appErr *errors.AppError) {
	if appErr.StatusCode() >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr),
		)
	}
	c.JSON(appErr.StatusCode(), errors.ToErrorResponse(appErr, c.GetHeader("X-Request-ID")))
}
