package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"github.com/randomnamegen/namegen-backend/internal/names/service"
	"github.com/randomnamegen/namegen-backend/internal/names/usages"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
)

const (
	msgInvalidRequest   = "Invalid request parameters"
	msgGenerateFailed   = "Failed to generate names. Please try again."
	msgNoNames          = "No names were returned for these options"
	msgLookupFailed     = "Failed to look up name. Please try again."
	msgNameNotFound     = "Name not found"
	msgRelatedFailed    = "Failed to fetch related names. Please try again."
	msgOriginFailed     = "Failed to classify name origin. Please try again."
	msgOriginNotSet     = "Name origin service is not configured"
	msgOriginNoResult   = "No origin estimate available for this name"
	msgOriginNeedsInput = "firstName or lastName is required"
)

// Handler handles the name proxy endpoints
type Handler struct {
	names   *service.NameService
	catalog *usages.Catalog
	log     *logger.Logger
}

// New creates a new Handler. It fails when the custom binding tags cannot be
// registered, since every request type depends on them.
func New(names *service.NameService, catalog *usages.Catalog, log *logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	return &Handler{
		names:   names,
		catalog: catalog,
		log:     log,
	}, nil
}

func (h *Handler) reqLogger(c *gin.Context, operation string) *logger.Logger {
	return logger.FromContext(c.Request.Context(), h.log).With("operation", operation)
}

// GenerateNames relays a random-name request to the name database
func (h *Handler) GenerateNames(c *gin.Context) {
	log := h.reqLogger(c, "generate_names")

	var body generateNamesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}

	req := domain.GenerateRequest{
		Gender:         body.Gender,
		Usage:          strings.ToLower(body.Usage),
		Number:         body.Number,
		IncludeSurname: isTrue(body.IncludeSurname) || isTrue(body.RandomSurname),
		IncludeDetails: body.IncludeDetails,
	}

	names, err := h.names.Generate(c.Request.Context(), req)
	if err != nil {
		var upErr *domain.UpstreamError
		switch {
		case errors.As(err, &upErr):
			log.Warn("name database rejected request", "error", err)
			c.JSON(http.StatusBadRequest, errorResponse{Error: upErr.Message})
		case errors.Is(err, domain.ErrEmptyResult):
			log.Warn("name database returned no names", "usage", req.Usage)
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgNoNames})
		default:
			log.Error("error generating names", "error", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: msgGenerateFailed})
		}
		return
	}

	c.JSON(http.StatusOK, generateNamesResponse{Names: names})
}

// LookupName returns meaning and usage details for a single name
func (h *Handler) LookupName(c *gin.Context) {
	log := h.reqLogger(c, "lookup_name")

	var body lookupNameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}

	name, err := h.names.Lookup(c.Request.Context(), domain.LookupRequest{
		Name:  strings.TrimSpace(body.Name),
		Exact: isTrue(body.Exact),
	})
	if err != nil {
		// The name database answers unknown names with an error payload,
		// so any rejection on this endpoint means "not found".
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUpstreamRejected) {
			log.Info("name not found", "name", body.Name, "error", err)
			c.JSON(http.StatusNotFound, errorResponse{Error: msgNameNotFound})
			return
		}
		log.Error("error looking up name", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgLookupFailed})
		return
	}

	c.JSON(http.StatusOK, name)
}

// RelatedNames returns names related to the given one
func (h *Handler) RelatedNames(c *gin.Context) {
	log := h.reqLogger(c, "related_names")

	var body relatedNamesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}

	names, err := h.names.Related(c.Request.Context(), domain.RelatedRequest{
		Name:   strings.TrimSpace(body.Name),
		Usage:  strings.ToLower(body.Usage),
		Gender: body.Gender,
	})
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			log.Warn("name database rejected request", "error", err)
			c.JSON(http.StatusBadRequest, errorResponse{Error: upErr.Message})
			return
		}
		log.Error("error fetching related names", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgRelatedFailed})
		return
	}

	c.JSON(http.StatusOK, relatedNamesResponse{RelatedNames: names})
}

// NameOrigin estimates the country and region a name comes from
func (h *Handler) NameOrigin(c *gin.Context) {
	log := h.reqLogger(c, "name_origin")

	// Checked before the body so a missing key is a 500 for every input.
	if !h.names.OriginConfigured() {
		log.Error("origin classifier credential missing")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgOriginNotSet})
		return
	}

	var body nameOriginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}
	req := domain.OriginRequest{
		FirstName: strings.TrimSpace(body.FirstName),
		LastName:  strings.TrimSpace(body.LastName),
	}
	if req.FirstName == "" && req.LastName == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgOriginNeedsInput})
		return
	}

	res, err := h.names.Origin(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingCredential):
			log.Error("origin classifier credential missing")
			c.JSON(http.StatusInternalServerError, errorResponse{Error: msgOriginNotSet})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, errorResponse{Error: msgOriginNoResult})
		case errors.Is(err, domain.ErrUpstreamRejected):
			log.Warn("origin classifier rejected request", "error", err)
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgOriginFailed})
		default:
			log.Error("error classifying name origin", "error", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: msgOriginFailed})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

// ListUsages returns the cultural origins the form offers
func (h *Handler) ListUsages(c *gin.Context) {
	c.JSON(http.StatusOK, usagesResponse{Usages: h.catalog.All()})
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
