package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/stretchr/testify/require"
)

func testConf(url string) config.EngineConfig {
	return config.EngineConfig{
		BaseUrl:             url,
		OutputsPath:         "$.outputs",
		MaxSubmitRetry:      1,
		RetryIntervalSecond: 0,
	}
}

func testGraph() *model.WorkflowGraph {
	return &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"1": {Id: "1", Type: "Sampler", Values: []model.RawValue{int64(5)}},
		},
	}
}

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prompt", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req["client_id"])
		require.NotNil(t, req["graph"])
		json.NewEncoder(w).Encode(map[string]string{"job_id": "remote-1"})
	}))
	defer srv.Close()

	client := NewHttpClient(testConf(srv.URL))
	result, err := client.Submit(context.Background(), testGraph())
	require.NoError(t, err)
	require.Equal(t, "remote-1", result.RemoteId)
}

func TestSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid node type", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHttpClient(testConf(srv.URL))
	_, err := client.Submit(context.Background(), testGraph())
	require.Error(t, err)
	se, ok := err.(SubmissionError)
	require.True(t, ok)
	require.Contains(t, se.Detail, "invalid node type")
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/status/"))
		json.NewEncoder(w).Encode(map[string]any{
			"status": "completed",
			"outputs": []map[string]any{
				{"filename": "img.png", "path": "/out/img.png", "type": "image"},
			},
		})
	}))
	defer srv.Close()

	client := NewHttpClient(testConf(srv.URL))
	resp, err := client.GetStatus(context.Background(), "remote-1")
	require.NoError(t, err)
	require.Equal(t, model.JOB_COMPLETED, resp.Status)
	require.Len(t, resp.Outputs, 1)
	require.Equal(t, "img.png", resp.Outputs[0].Filename)
	require.Equal(t, "image", resp.Outputs[0].Kind)
}

func TestStatusNormalization(t *testing.T) {
	cases := map[string]model.JobStatus{
		"queued":    model.JOB_PENDING,
		"Running":   model.JOB_RUNNING,
		"executing": model.JOB_RUNNING,
		"success":   model.JOB_COMPLETED,
		"error":     model.JOB_FAILED,
		"who knows": model.JOB_PENDING,
	}
	for in, expected := range cases {
		require.Equal(t, expected, normalizeStatus(in), in)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	client := NewHttpClient(testConf(srv.URL))
	// any response means the engine is reachable
	require.NoError(t, client.Ping(context.Background()))

	srv.Close()
	require.Error(t, client.Ping(context.Background()))
}
