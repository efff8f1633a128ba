package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"courtbook/pkg/model"
)

const (
	sessionsPath         = "/api/v1/sessions"
	idempotencyKeyHeader = "Idempotency-Key"
)

// APIError is a non-2xx answer from the sessions service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sessions api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// SessionClient talks to the sessions HTTP API.
type SessionClient struct {
	http *HttpClient
}

func NewSessionClient(baseURL string) *SessionClient {
	return &SessionClient{http: NewHttpClient(baseURL)}
}

func (c *SessionClient) Create(ctx context.Context, in model.SessionInput) (model.SessionView, error) {
	var out model.SessionView
	resp, err := c.http.POST(ctx, sessionsPath, in)
	return out, decodeData(resp, err, http.StatusCreated, &out)
}

// List returns sessions for view ("upcoming", "past" or "" for all).
func (c *SessionClient) List(ctx context.Context, view string) ([]model.SessionView, error) {
	path := sessionsPath
	if view != "" {
		path += "?view=" + url.QueryEscape(view)
	}
	var out []model.SessionView
	resp, err := c.http.GET(ctx, path)
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) Get(ctx context.Context, id string) (model.SessionView, error) {
	var out model.SessionView
	resp, err := c.http.GET(ctx, sessionPath(id))
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) BookSlot(ctx context.Context, id string, in model.SlotInput) (model.SessionView, error) {
	var out model.SessionView
	resp, err := c.http.POST(ctx, sessionPath(id)+"/slots", in)
	return out, decodeData(resp, err, http.StatusCreated, &out)
}

// BookSlotOnce sends key as the idempotency key so a retried booking is
// answered from the first response instead of claiming a second slot.
func (c *SessionClient) BookSlotOnce(ctx context.Context, id, key string, in model.SlotInput) (model.SessionView, error) {
	var out model.SessionView
	resp, err := c.http.POSTWithHeaders(ctx, sessionPath(id)+"/slots", in, map[string]string{
		idempotencyKeyHeader: key,
	})
	return out, decodeData(resp, err, http.StatusCreated, &out)
}

func (c *SessionClient) CancelSlot(ctx context.Context, id string, slotID model.SlotID) (model.SessionView, error) {
	var out model.SessionView
	resp, err := c.http.DELETE(ctx, sessionPath(id)+"/slots/"+strconv.FormatInt(int64(slotID), 10))
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) Finalize(ctx context.Context, id string, req model.FinalizeRequest) (model.SessionView, error) {
	var out model.SessionView
	resp, err := c.http.POST(ctx, sessionPath(id)+"/finalize", req)
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) CheckAllocation(ctx context.Context, id string, req model.FinalizeRequest) (model.AllocationCheck, error) {
	var out model.AllocationCheck
	resp, err := c.http.POST(ctx, sessionPath(id)+"/allocation/check", req)
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) Cost(ctx context.Context, id string, liveTotal float64) (model.CostPreview, error) {
	var out model.CostPreview
	path := sessionPath(id) + "/cost?total=" + strconv.FormatFloat(liveTotal, 'f', -1, 64)
	resp, err := c.http.GET(ctx, path)
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) Share(ctx context.Context, id string) (model.ShareLink, error) {
	var out model.ShareLink
	resp, err := c.http.GET(ctx, sessionPath(id)+"/share")
	return out, decodeData(resp, err, http.StatusOK, &out)
}

func (c *SessionClient) Delete(ctx context.Context, id string) error {
	resp, err := c.http.DELETE(ctx, sessionPath(id))
	return decodeData(resp, err, http.StatusNoContent, nil)
}

func sessionPath(id string) string {
	return sessionsPath + "/id/" + url.PathEscape(id)
}

func decodeData(resp *Response, err error, wantStatus int, target any) error {
	if err != nil {
		return err
	}
	if resp.StatusCode != wantStatus {
		return newAPIError(resp)
	}
	if target == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	if err := resp.DecodeJSON(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = GetErrorMessage(resp)
	}
	return apiErr
}
