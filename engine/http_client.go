package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/graph"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/oliveagle/jsonpath"
	"go.uber.org/zap"
)

type httpClient struct {
	conf     config.EngineConfig
	clientId string
	client   *http.Client
}

var _ Client = new(httpClient)

func NewHttpClient(conf config.EngineConfig) *httpClient {
	clientId := conf.ClientId
	if clientId == "" {
		clientId = uuid.New().String()
	}
	return &httpClient{
		conf:     conf,
		clientId: clientId,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type submitRequest struct {
	ClientId string          `json:"client_id"`
	Graph    json.RawMessage `json:"graph"`
}

type submitResponse struct {
	JobId string `json:"job_id"`
	Error string `json:"error,omitempty"`
}

// Submit posts the graph to the engine, retrying transport failures on a
// constant interval. A rejection by the engine itself is not retried.
func (hc *httpClient) Submit(ctx context.Context, g *model.WorkflowGraph) (*model.SubmissionResult, error) {
	doc, err := graph.Marshal(g)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(submitRequest{ClientId: hc.clientId, Graph: doc})
	if err != nil {
		return nil, err
	}
	var result *model.SubmissionResult
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Duration(hc.conf.RetryIntervalSecond)*time.Second), uint64(hc.conf.MaxSubmitRetry))
	err = backoff.Retry(func() error {
		res, err := hc.postSubmit(ctx, body)
		if err != nil {
			if _, rejected := err.(SubmissionError); rejected {
				return backoff.Permanent(err)
			}
			logger.Warn("engine submit failed, retrying", zap.Error(err))
			return err
		}
		result = res
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (hc *httpClient) postSubmit(ctx context.Context, body []byte) (*model.SubmissionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hc.conf.BaseUrl+"/prompt", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, SubmissionError{Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))}
	}
	var sr submitResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, SubmissionError{Detail: fmt.Sprintf("undecodable response: %v", err)}
	}
	if sr.Error != "" {
		return nil, SubmissionError{Detail: sr.Error}
	}
	if sr.JobId == "" {
		return nil, SubmissionError{Detail: "no job id in response"}
	}
	return &model.SubmissionResult{RemoteId: sr.JobId}, nil
}

func (hc *httpClient) GetStatus(ctx context.Context, remoteId string) (*StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.conf.BaseUrl+"/status/"+remoteId, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status query failed with %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("undecodable status payload %w", err)
	}
	return hc.parseStatus(payload), nil
}

// parseStatus normalizes the engine's loosely typed status payload. The
// outputs location varies between engine builds, so it is located with a
// configured jsonpath expression.
func (hc *httpClient) parseStatus(payload map[string]any) *StatusResponse {
	out := &StatusResponse{Status: model.JOB_PENDING}
	if s, ok := payload["status"].(string); ok {
		out.Status = normalizeStatus(s)
	}
	if d, ok := payload["detail"].(string); ok {
		out.Detail = d
	}
	raw, err := jsonpath.JsonPathLookup(payload, hc.conf.OutputsPath)
	if err != nil {
		return out
	}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref := model.AssetRef{}
		if v, ok := m["filename"].(string); ok {
			ref.Filename = v
		}
		if v, ok := m["path"].(string); ok {
			ref.Path = v
		}
		if v, ok := m["type"].(string); ok {
			ref.Kind = v
		}
		if ref.Filename != "" || ref.Path != "" {
			out.Outputs = append(out.Outputs, ref)
		}
	}
	return out
}

func normalizeStatus(s string) model.JobStatus {
	switch strings.ToLower(s) {
	case "pending", "queued":
		return model.JOB_PENDING
	case "running", "executing", "in_progress":
		return model.JOB_RUNNING
	case "completed", "success", "done":
		return model.JOB_COMPLETED
	case "failed", "error":
		return model.JOB_FAILED
	}
	return model.JOB_PENDING
}

// Ping checks that the engine endpoint is reachable. Any http response
// counts, only a transport failure is an error.
func (hc *httpClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.conf.BaseUrl, nil)
	if err != nil {
		return err
	}
	resp, err := hc.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
