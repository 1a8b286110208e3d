package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	qd "github.com/Aleph-Alpha/qdrant-gateway/v1/qdrant"
	"github.com/Aleph-Alpha/qdrant-gateway/v1/vectors"
)

const (
	overallHealthy  = "healthy"
	overallDegraded = "degraded"
)

// ServiceHealth is the state of one downstream dependency in GET /health.
type ServiceHealth struct {
	Status    string  `json:"status"`
	LatencyMs float64 `json:"latency_ms"`
	Error     *string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Version   string                   `json:"version"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services"`
}

func (s *Server) root(c *fiber.Ctx) error {
	var docs *string
	if s.cfg.DocsURL != "" {
		docs = &s.cfg.DocsURL
	}
	return c.JSON(fiber.Map{
		"service": s.cfg.ProjectName,
		"version": s.cfg.Version,
		"docs":    docs,
	})
}

// health always answers 200. A failing Qdrant degrades the overall status.
func (s *Server) health(c *fiber.Ctx) error {
	h := s.vectors.HealthCheck(c.UserContext())

	qdrantHealth := ServiceHealth{Status: h.Status, LatencyMs: h.LatencyMs}
	if h.Error != "" {
		qdrantHealth.Error = &h.Error
	}

	status := overallHealthy
	if h.Status != qd.StatusHealthy {
		status = overallDegraded
	}

	return c.JSON(HealthResponse{
		Status:    status,
		Version:   s.cfg.Version,
		Timestamp: time.Now().UTC(),
		Services:  map[string]ServiceHealth{"qdrant": qdrantHealth},
	})
}

//
// ──────────────────────────────────────────────────────────────
//   COLLECTIONS
// ──────────────────────────────────────────────────────────────
//

func (s *Server) listCollections(c *fiber.Ctx) error {
	out, err := s.vectors.ListCollections(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (s *Server) getCollection(c *fiber.Ctx) error {
	out, err := s.vectors.GetCollection(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (s *Server) createCollection(c *fiber.Ctx) error {
	var req vectors.CollectionCreate
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	out, err := s.vectors.CreateCollection(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (s *Server) deleteCollection(c *fiber.Ctx) error {
	if err := s.vectors.DeleteCollection(c.UserContext(), c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

//
// ──────────────────────────────────────────────────────────────
//   POINTS
// ──────────────────────────────────────────────────────────────
//

func (s *Server) upsertPoint(c *fiber.Ctx) error {
	var req vectors.PointCreate
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	out, err := s.vectors.UpsertPoint(c.UserContext(), c.Params("collection"), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (s *Server) upsertPointsBatch(c *fiber.Ctx) error {
	var req vectors.PointsBatchCreate
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	count, err := s.vectors.UpsertPointsBatch(c.UserContext(), c.Params("collection"), req.Points)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(vectors.BatchResponse{Count: count})
}

func (s *Server) getPoint(c *fiber.Ctx) error {
	withVector := false
	if raw := c.Query("with_vector"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return &vectors.FieldError{Field: "with_vector", Reason: "must be a boolean"}
		}
		withVector = v
	}

	id := vectors.ParsePointID(c.Params("id"))
	out, err := s.vectors.GetPoint(c.UserContext(), c.Params("collection"), id, withVector)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (s *Server) deletePoint(c *fiber.Ctx) error {
	id := vectors.ParsePointID(c.Params("id"))
	if err := s.vectors.DeletePoint(c.UserContext(), c.Params("collection"), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) search(c *fiber.Ctx) error {
	var req vectors.SearchRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	out, err := s.vectors.Search(c.UserContext(), c.Params("collection"), req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
