package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collections-api/internal/models"
	"collections-api/internal/repositories"
	"collections-api/internal/repositories/dynamodb"
	"collections-api/internal/services"
)

func setupCollectionTest(t *testing.T) *CollectionHandler {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := dynamodb.NewCollectionRepository(dynamodb.NewMemoryClient("collections"), "collections", logger)
	return NewCollectionHandler(services.NewCollectionService(repo, logger), logger, "")
}

func event(method, body string) *events.APIGatewayV2HTTPRequest {
	return &events.APIGatewayV2HTTPRequest{
		RouteKey: "ANY /collections",
		Body:     body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RequestID: "req-1",
			HTTP:      events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: method},
		},
	}
}

func call(t *testing.T, h *CollectionHandler, method, body string) events.APIGatewayV2HTTPResponse {
	t.Helper()
	resp, err := h.Handle(context.Background(), event(method, body))
	require.NoError(t, err)
	return resp
}

func listRecords(t *testing.T, h *CollectionHandler) []map[string]any {
	t.Helper()
	resp := call(t, h, http.MethodGet, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &records))
	return records
}

func findRecord(records []map[string]any, id string) map[string]any {
	for _, r := range records {
		if r["id"] == id {
			return r
		}
	}
	return nil
}

func TestCollectionHandler_Create_GeneratesID(t *testing.T) {
	h := setupCollectionTest(t)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		resp := call(t, h, http.MethodPost, `{"name":"Minerals","owner":"alice"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var created models.Collection
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &created))
		assert.NotEmpty(t, created.ID)
		assert.False(t, seen[created.ID], "id %s reused", created.ID)
		seen[created.ID] = true
		assert.Equal(t, "Minerals", created.Name)
	}
}

func TestCollectionHandler_Create_KeepsSuppliedID(t *testing.T) {
	h := setupCollectionTest(t)

	resp := call(t, h, http.MethodPost, `{"id":"col-1","name":"Fossils","parent_id":"root"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"col-1","name":"Fossils","parent_id":"root","description":null,"type":null,"location":null,"owner":null}`, resp.Body)

	// unset fields are echoed as null but never stored
	record := findRecord(listRecords(t, h), "col-1")
	assert.Equal(t, map[string]any{"id": "col-1", "name": "Fossils", "parent_id": "root"}, record)
}

func TestCollectionHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantMsg: "request body is empty"},
		{name: "blank body", body: "  \n", wantStatus: http.StatusBadRequest, wantMsg: "request body is empty"},
		{name: "missing name", body: `{"owner":"alice"}`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'name'"},
		{name: "empty name", body: `{"name":"","id":"x"}`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'name'"},
		{name: "blank name", body: `{"name":"   "}`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'name'"},
		{name: "null body", body: `null`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'name'"},
		{name: "malformed", body: `{name:`, wantStatus: http.StatusInternalServerError, wantMsg: "failed to parse collection"},
		{name: "unknown field", body: `{"name":"x","color":"red"}`, wantStatus: http.StatusInternalServerError, wantMsg: "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupCollectionTest(t)
			resp := call(t, h, http.MethodPost, tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &errResp))
			assert.Contains(t, errResp.Message, tt.wantMsg)
		})
	}
}

func TestCollectionHandler_List_Empty(t *testing.T) {
	h := setupCollectionTest(t)

	resp := call(t, h, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", resp.Body)
}

func TestCollectionHandler_List_PopulatedFieldsOnly(t *testing.T) {
	h := setupCollectionTest(t)

	call(t, h, http.MethodPost, `{"id":"a","name":"Minerals","owner":"alice"}`)
	call(t, h, http.MethodPost, `{"id":"b","name":"Fossils","description":"Jurassic","location":"hall 2"}`)
	call(t, h, http.MethodPost, `{"id":"c","name":"Shells"}`)

	records := listRecords(t, h)
	require.Len(t, records, 3)

	assert.Equal(t, map[string]any{"id": "a", "name": "Minerals", "owner": "alice"}, findRecord(records, "a"))
	assert.Equal(t, map[string]any{"id": "b", "name": "Fossils", "description": "Jurassic", "location": "hall 2"}, findRecord(records, "b"))
	assert.Equal(t, map[string]any{"id": "c", "name": "Shells"}, findRecord(records, "c"))
}

func TestCollectionHandler_Update(t *testing.T) {
	h := setupCollectionTest(t)
	call(t, h, http.MethodPost, `{"id":"X","name":"Stamps","owner":"bob","type":"paper"}`)

	resp := call(t, h, http.MethodPut, `{"id":"X","owner":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"id":"X","message":"updated successfully"}`, resp.Body)

	record := findRecord(listRecords(t, h), "X")
	assert.Equal(t, map[string]any{"id": "X", "name": "Stamps", "owner": "alice", "type": "paper"}, record)
}

func TestCollectionHandler_Update_TypedValues(t *testing.T) {
	h := setupCollectionTest(t)
	call(t, h, http.MethodPost, `{"id":"X","name":"Stamps"}`)

	resp := call(t, h, http.MethodPut, `{"id":"X","shelf":12,"archived":true,"tags":["a"],"parent_id":null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// numbers come back as their literal text; booleans and unsupported values do not appear
	record := findRecord(listRecords(t, h), "X")
	assert.Equal(t, map[string]any{"id": "X", "name": "Stamps", "shelf": "12"}, record)

	resp = call(t, h, http.MethodGet, "")
	assert.Contains(t, resp.Body, `"shelf":"12"`)
}

func TestCollectionHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantMsg: "request body is empty"},
		{name: "missing id", body: `{"owner":"alice"}`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'id'"},
		{name: "blank id", body: `{"id":" ","owner":"alice"}`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'id'"},
		{name: "id only", body: `{"id":"X"}`, wantStatus: http.StatusBadRequest, wantMsg: "no valid fields to update"},
		{name: "only unsupported values", body: `{"id":"X","tags":[]}`, wantStatus: http.StatusBadRequest, wantMsg: "no valid fields to update"},
		{name: "null id", body: `{"id":null,"owner":"alice"}`, wantStatus: http.StatusBadRequest, wantMsg: "missing required field 'id'"},
		{name: "numeric id", body: `{"id":7,"owner":"alice"}`, wantStatus: http.StatusInternalServerError, wantMsg: "must be a string"},
		{name: "malformed", body: `not json`, wantStatus: http.StatusInternalServerError, wantMsg: "failed to parse request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupCollectionTest(t)
			resp := call(t, h, http.MethodPut, tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &errResp))
			assert.Contains(t, errResp.Message, tt.wantMsg)
		})
	}
}

func TestCollectionHandler_Delete(t *testing.T) {
	h := setupCollectionTest(t)
	call(t, h, http.MethodPost, `{"id":"X","name":"Shells"}`)
	call(t, h, http.MethodPost, `{"id":"Y","name":"Coins"}`)

	resp := call(t, h, http.MethodDelete, `{"id":"X","reason":"duplicate"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"id":"X","reason":"duplicate"}`, resp.Body)

	records := listRecords(t, h)
	assert.Nil(t, findRecord(records, "X"))
	assert.NotNil(t, findRecord(records, "Y"))
}

func TestCollectionHandler_Delete_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantMsg: "request body is empty"},
		{name: "no id key", body: `{"name":"Shells"}`, wantStatus: http.StatusInternalServerError, wantMsg: "error deleting collection, id="},
		{name: "id mentioned only as a value", body: `{"key":"id"}`, wantStatus: http.StatusInternalServerError, wantMsg: "error deleting collection, id="},
		{name: "empty id", body: `{"id":""}`, wantStatus: http.StatusInternalServerError, wantMsg: "error deleting collection, id="},
		{name: "malformed", body: `{"id":`, wantStatus: http.StatusInternalServerError, wantMsg: "failed to parse request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupCollectionTest(t)
			resp := call(t, h, http.MethodDelete, tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &errResp))
			assert.Contains(t, errResp.Message, tt.wantMsg)
		})
	}
}

func TestCollectionHandler_Dispatch(t *testing.T) {
	h := setupCollectionTest(t)

	resp := call(t, h, http.MethodPatch, `{"id":"X"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "unsupported HTTP method: PATCH")

	resp = call(t, h, "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "unsupported HTTP method: UNKNOWN")

	resp = call(t, h, http.MethodOptions, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestCollectionHandler_NilRequest(t *testing.T) {
	h := setupCollectionTest(t)

	resp, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "request is nil")
}

func TestCollectionHandler_Headers(t *testing.T) {
	h := setupCollectionTest(t)

	resp := call(t, h, http.MethodGet, "")
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Contains(t, resp.Headers["Access-Control-Allow-Methods"], "DELETE")
}

// panickingService panics on every call
type panickingService struct{ services.CollectionService }

func (panickingService) ListCollections(context.Context) ([]repositories.Record, error) {
	panic("boom")
}

// failingService fails every list with err
type failingService struct {
	services.CollectionService
	err error
}

func (f failingService) ListCollections(context.Context) ([]repositories.Record, error) {
	return nil, f.err
}

func TestCollectionHandler_RecoversFromPanic(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewCollectionHandler(panickingService{}, logger, "https://example.com")

	resp := call(t, h, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "boom")
	assert.Equal(t, "https://example.com", resp.Headers["Access-Control-Allow-Origin"])
}

func TestCollectionHandler_StoreFailure(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewCollectionHandler(failingService{err: errors.New("table unavailable")}, logger, "")

	resp := call(t, h, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &errResp))
	assert.Equal(t, "Failed to list collections", errResp.Error)
	assert.Equal(t, "table unavailable", errResp.Message)
}
