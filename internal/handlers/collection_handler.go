package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"collections-api/internal/models"
	"collections-api/internal/services"
)

const unknownMethod = "UNKNOWN"

// CollectionHandler turns API Gateway HTTP events into collection operations
type CollectionHandler struct {
	service     services.CollectionService
	logger      *logrus.Logger
	allowOrigin string
}

// NewCollectionHandler creates a new collection handler. allowOrigin is
// echoed in Access-Control-Allow-Origin and defaults to "*".
func NewCollectionHandler(service services.CollectionService, logger *logrus.Logger, allowOrigin string) *CollectionHandler {
	if logger == nil {
		logger = logrus.New()
	}
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return &CollectionHandler{
		service:     service,
		logger:      logger,
		allowOrigin: allowOrigin,
	}
}

// Handle dispatches on the request method and always produces a response;
// the returned error is always nil so API Gateway sees the status code
// chosen here.
func (h *CollectionHandler) Handle(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.WithField("panic", r).Error("Recovered from panic while handling request")
			resp = h.respondError(http.StatusInternalServerError, "Internal server error", fmt.Sprintf("internal error: %v", r))
			err = nil
		}
	}()

	if req == nil {
		h.logger.Error("Received nil request")
		return h.respondError(http.StatusInternalServerError, "Internal server error", "request is nil"), nil
	}

	method := methodOf(req)
	log := h.logger.WithFields(requestFields(ctx, req, method))
	log.Info("HTTP method received")

	switch method {
	case http.MethodPost:
		return h.create(ctx, log, req.Body), nil
	case http.MethodGet:
		return h.list(ctx, log), nil
	case http.MethodPut:
		return h.update(ctx, log, req.Body), nil
	case http.MethodDelete:
		return h.delete(ctx, log, req.Body), nil
	case http.MethodOptions:
		return h.respond(http.StatusNoContent, ""), nil
	default:
		log.Warn("Unsupported HTTP method")
		return h.respondError(http.StatusBadRequest, "Unsupported method", "unsupported HTTP method: "+method), nil
	}
}

// create handles collection creation
// @Summary Create a collection
// @Description Store a collection record, generating an ID when none is supplied
// @Tags collections
// @Accept json
// @Produce json
// @Param collection body models.Collection true "Collection data"
// @Success 200 {object} models.Collection
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /collections [post]
func (h *CollectionHandler) create(ctx context.Context, log *logrus.Entry, body string) events.APIGatewayV2HTTPResponse {
	log.WithField("body", body).Debug("Create request body")
	if models.IsBlank(body) {
		return h.respondError(http.StatusBadRequest, "Invalid request body", "request body is empty")
	}

	collection, err := models.DecodeCollection(body)
	if err != nil {
		log.WithError(err).Error("Failed to parse create request")
		return h.respondError(http.StatusInternalServerError, "Failed to create collection", err.Error())
	}

	created, err := h.service.CreateCollection(ctx, collection)
	if err != nil {
		log.WithError(err).Error("Failed to create collection")
		return h.respondFailure("Failed to create collection", err)
	}

	return h.respondJSON(http.StatusOK, created)
}

// list handles listing every collection
// @Summary List collections
// @Description Get every stored collection with its populated attributes
// @Tags collections
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} ErrorResponse
// @Router /collections [get]
func (h *CollectionHandler) list(ctx context.Context, log *logrus.Entry) events.APIGatewayV2HTTPResponse {
	records, err := h.service.ListCollections(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list collections")
		return h.respondFailure("Failed to list collections", err)
	}

	if len(records) == 0 {
		return h.respond(http.StatusOK, "[]")
	}
	return h.respondJSON(http.StatusOK, records)
}

// update handles partial collection updates
// @Summary Update a collection
// @Description Set the given attributes on the collection named by id
// @Tags collections
// @Accept json
// @Produce json
// @Param fields body object true "Attributes to set, including id"
// @Success 200 {object} UpdateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /collections [put]
func (h *CollectionHandler) update(ctx context.Context, log *logrus.Entry, body string) events.APIGatewayV2HTTPResponse {
	log.WithField("body", body).Debug("Update request body")
	if models.IsBlank(body) {
		return h.respondError(http.StatusBadRequest, "Invalid request body", "request body is empty")
	}

	patch, err := models.ParsePatch(body)
	if err != nil {
		log.WithError(err).Error("Failed to parse update request")
		return h.respondError(http.StatusInternalServerError, "Failed to update collection", err.Error())
	}

	id, present, ok := patch.StringField(models.IDField)
	if present && !ok {
		return h.respondError(http.StatusInternalServerError, "Failed to update collection",
			fmt.Sprintf("field '%s' must be a string", models.IDField))
	}

	if err := h.service.UpdateCollection(ctx, id, patch.Without(models.IDField)); err != nil {
		log.WithError(err).Error("Failed to update collection")
		return h.respondFailure("Failed to update collection", err)
	}

	return h.respondJSON(http.StatusOK, UpdateResponse{ID: id, Message: "updated successfully"})
}

// delete handles collection removal
// @Summary Delete a collection
// @Description Remove the collection named by id and echo the request body
// @Tags collections
// @Accept json
// @Produce json
// @Param body body object true "Object carrying the id to delete"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /collections [delete]
func (h *CollectionHandler) delete(ctx context.Context, log *logrus.Entry, body string) events.APIGatewayV2HTTPResponse {
	log.WithField("body", body).Debug("Delete request body")
	if models.IsBlank(body) {
		return h.respondError(http.StatusBadRequest, "Invalid request body", "request body is empty")
	}

	patch, err := models.ParsePatch(body)
	if err != nil {
		log.WithError(err).Error("Failed to parse delete request")
		return h.respondError(http.StatusInternalServerError, "Failed to delete collection", err.Error())
	}

	// A body that never mentions the key is reported as a server error,
	// unlike create and update.
	var id string
	if strings.Contains(body, `"`+models.IDField+`"`) {
		id, _, _ = patch.StringField(models.IDField)
	} else {
		log.Warn("No id found in delete request")
	}

	if _, err := h.service.DeleteCollection(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete collection")
		return h.respondFailure("Failed to delete collection", err)
	}

	return h.respondJSON(http.StatusOK, patch)
}

// methodOf reads the method of an HTTP API (payload v2) event
func methodOf(req *events.APIGatewayV2HTTPRequest) string {
	method := strings.TrimSpace(req.RequestContext.HTTP.Method)
	if method == "" {
		return unknownMethod
	}
	return method
}

func requestFields(ctx context.Context, req *events.APIGatewayV2HTTPRequest, method string) logrus.Fields {
	fields := logrus.Fields{
		"method":     method,
		"route_key":  req.RouteKey,
		"request_id": req.RequestContext.RequestID,
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		fields["aws_request_id"] = lc.AwsRequestID
	}
	return fields
}
