package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	Type    string
	Source  string
	Subject string
	Body    map[string]any
}

func setupEventsTest(t *testing.T, status int) (*CloudEventsPublisher, func() []received) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []received
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		mu.Lock()
		seen = append(seen, received{
			Type:    r.Header.Get("Ce-Type"),
			Source:  r.Header.Get("Ce-Source"),
			Subject: r.Header.Get("Ce-Subject"),
			Body:    body,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	p, err := NewCloudEventsPublisher(server.URL, "simple-site-test")
	require.NoError(t, err)
	return p, func() []received {
		mu.Lock()
		defer mu.Unlock()
		return append([]received(nil), seen...)
	}
}

func TestCloudEventsPublisher_Publish(t *testing.T) {
	p, seen := setupEventsTest(t, http.StatusAccepted)

	err := p.Publish(context.Background(), TypeContentImported, "/my-corporation", map[string]any{"path": "/my-corporation"})
	require.NoError(t, err)

	events := seen()
	require.Len(t, events, 1)
	assert.Equal(t, TypeContentImported, events[0].Type)
	assert.Equal(t, "simple-site-test", events[0].Source)
	assert.Equal(t, "/my-corporation", events[0].Subject)
	assert.Equal(t, "/my-corporation", events[0].Body["path"])
}

func TestCloudEventsPublisher_Rejected(t *testing.T) {
	p, _ := setupEventsTest(t, http.StatusBadRequest)

	err := p.Publish(context.Background(), TypeLargeTreeCreated, "/large-tree", nil)
	assert.Error(t, err)
}

func TestCloudEventsPublisher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	p, err := NewCloudEventsPublisher(target, "simple-site-test")
	require.NoError(t, err)
	assert.Error(t, p.Publish(context.Background(), TypeContentImported, "/x", nil))
}

func TestNewCloudEventsPublisher_RequiresTarget(t *testing.T) {
	_, err := NewCloudEventsPublisher("", "simple-site")
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), TypeContentImported, "/x", nil))
}
