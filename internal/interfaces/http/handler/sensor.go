package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	farmapp "github.com/smartfarm/backend/internal/application/farm"
)

// SensorHandler handles reading ingest and retrieval. Readings are not
// owner-scoped; any authenticated caller may use them.
type SensorHandler struct {
	BaseHandler
	sensorService *farmapp.SensorService
}

// NewSensorHandler creates a new sensor handler
func NewSensorHandler(sensorService *farmapp.SensorService) *SensorHandler {
	return &SensorHandler{
		sensorService: sensorService,
	}
}

// Record appends a reading to an existing field.
// POST /sensors
func (h *SensorHandler) Record(c *gin.Context) {
	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	// The uuid binding rule has already accepted the value
	fieldID, err := uuid.Parse(req.FieldID)
	if err != nil {
		h.BadRequest(c, "Invalid field ID")
		return
	}

	reading, err := h.sensorService.Record(c.Request.Context(), farmapp.RecordReadingInput{
		FieldID:   fieldID,
		Type:      req.Type,
		Value:     req.Value,
		Unit:      req.Unit,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toReadingResponse(reading))
}

// List returns a field's readings, newest first.
// GET /sensors/:fieldId?type=&limit=
func (h *SensorHandler) List(c *gin.Context) {
	fieldID, ok := h.fieldIDParam(c)
	if !ok {
		return
	}

	var query ListReadingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	readings, err := h.sensorService.ListByField(c.Request.Context(), fieldID, farmapp.ReadingFilter{
		Type:  query.Type,
		Limit: query.Limit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReadingResponses(readings))
}

// Latest returns the dashboard readings for a field from the configured
// sensor source.
// GET /sensors/:fieldId/latest
func (h *SensorHandler) Latest(c *gin.Context) {
	fieldID, ok := h.fieldIDParam(c)
	if !ok {
		return
	}

	readings, err := h.sensorService.Latest(c.Request.Context(), fieldID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReadingResponses(readings))
}

// fieldIDParam parses :fieldId. An id that is not a UUID cannot have
// readings, so the caller gets an empty list rather than an error.
func (h *SensorHandler) fieldIDParam(c *gin.Context) (uuid.UUID, bool) {
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		h.Success(c, []ReadingResponse{})
		return uuid.Nil, false
	}
	return fieldID, true
}
