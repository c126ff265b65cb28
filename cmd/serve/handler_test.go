package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/pipeline"
	"github.com/spetersoncode/postflow/publish"
	"github.com/spetersoncode/postflow/store"
	"github.com/spetersoncode/postflow/workflow"
)

type fakeGenerator struct {
	err error
}

func (g *fakeGenerator) Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	content := "Draft about " + req.Input.Topic
	if req.Feedback != "" {
		content += " (revised: " + req.Feedback + ")"
	}
	return &pipeline.Result{
		Draft: ai.Draft{Content: content, Hashtags: []string{"testing"}},
	}, nil
}

type fakePublisher struct{}

func (fakePublisher) Publish(ctx context.Context, draft ai.Draft) (*publish.Receipt, error) {
	return &publish.Receipt{PostID: "post-1", Simulated: true}, nil
}

func newTestServer(t *testing.T, gen pipeline.Generator) *httptest.Server {
	t.Helper()
	engine := workflow.New(workflow.Config{
		Store:     store.NewMemory(),
		Single:    gen,
		Multi:     gen,
		Publisher: fakePublisher{},
	})
	mux := http.NewServeMux()
	NewHandler(engine).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeSession(t *testing.T, resp *http.Response) *ai.Session {
	t.Helper()
	defer resp.Body.Close()
	var session ai.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	return &session
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp := postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: "the future of renewable energy storage",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	session := decodeSession(t, resp)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, ai.StatusAwaitingDecision, session.Status)
	assert.Contains(t, session.Draft.Content, "renewable energy")
}

func TestGenerateEndpointTopicTooShort(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp := postJSON(t, srv.URL+"/api/generate-post", generateRequest{Topic: "short"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateEndpointTopicTooLong(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp := postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: strings.Repeat("x", ai.MaxTopicLength+1),
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateEndpointMalformedBody(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp, err := http.Post(srv.URL+"/api/generate-post", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateEndpointUpstreamOutage(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{
		err: ai.NewTransientError("model overloaded", 429, nil),
	})

	resp := postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: "the future of renewable energy storage",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestApproveEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	created := decodeSession(t, postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: "lessons from a decade of on-call rotations",
	}))

	resp := postJSON(t, srv.URL+"/api/approve-post", decideRequest{
		SessionID: created.ID,
		Approved:  true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := decodeSession(t, resp)
	assert.Equal(t, ai.StatusDone, session.Status)
}

func TestApproveEndpointRevision(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	created := decodeSession(t, postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: "lessons from a decade of on-call rotations",
	}))

	resp := postJSON(t, srv.URL+"/api/approve-post", decideRequest{
		SessionID: created.ID,
		Approved:  false,
		Feedback:  "make it shorter",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := decodeSession(t, resp)
	assert.Equal(t, ai.StatusAwaitingDecision, session.Status)
	assert.Equal(t, 1, session.RevisionCount)
	assert.Contains(t, session.Draft.Content, "make it shorter")
}

func TestApproveEndpointMissingSessionID(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp := postJSON(t, srv.URL+"/api/approve-post", decideRequest{Approved: true})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestApproveEndpointUnknownSession(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp := postJSON(t, srv.URL+"/api/approve-post", decideRequest{
		SessionID: "sess-missing",
		Approved:  true,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApproveEndpointAfterDoneConflicts(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	created := decodeSession(t, postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: "lessons from a decade of on-call rotations",
	}))

	first := postJSON(t, srv.URL+"/api/approve-post", decideRequest{
		SessionID: created.ID, Approved: true,
	})
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, srv.URL+"/api/approve-post", decideRequest{
		SessionID: created.ID, Approved: true,
	})
	defer second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestSessionEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	created := decodeSession(t, postJSON(t, srv.URL+"/api/generate-post", generateRequest{
		Topic: "lessons from a decade of on-call rotations",
	}))

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s", srv.URL, created.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := decodeSession(t, resp)
	assert.Equal(t, created.ID, session.ID)
}

func TestSessionEndpointNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	resp, err := http.Get(srv.URL + "/api/sessions/sess-missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
