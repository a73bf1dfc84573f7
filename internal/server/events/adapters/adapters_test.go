package adapters

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/internal/server/events"
	"github.com/agentstation/imagerater/internal/server/sse"
	ws "github.com/agentstation/imagerater/internal/server/websocket"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/logging"
)

var images = []string{"https://img.test/a.jpg", "https://img.test/b.jpg"}

type pipeline struct {
	rater       *imagerater.Rater
	hub         *ws.Hub
	broadcaster *sse.Broadcaster
}

// newPipeline wires rater -> broker -> both transports and runs them until the test ends.
func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	logger := logging.NewNopLogger()

	r, err := imagerater.New(imagerater.WithImages(images), imagerater.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, r.Load())

	p := &pipeline{rater: r, hub: ws.NewHub(logger), broadcaster: sse.NewBroadcaster(logger)}
	broker := events.NewBroker(logger)
	broker.Subscribe(NewWebSocket(p.hub))
	broker.Subscribe(NewSSE(p.broadcaster))
	events.Connect(r, broker)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, run := range []func(context.Context){broker.Run, p.hub.Run, p.broadcaster.Run} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(ctx)
		}()
	}
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	return p
}

func TestRatingChangeReachesWebSocketClient(t *testing.T) {
	p := newPipeline(t)

	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := ws.NewClient(ws.NewClientID(), p.hub, conn)
		p.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer ts.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()
	require.Eventually(t, func() bool { return p.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, p.rater.Rate(images[1], 5))
	p.rater.Select(images[1])

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var rating struct {
		Seq  uint64                  `json:"seq"`
		Type string                  `json:"type"`
		Data imagerater.RatingChange `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&rating))
	assert.Equal(t, uint64(1), rating.Seq)
	assert.Equal(t, string(events.RatingChanged), rating.Type)
	assert.Equal(t, imagerater.RatingChange{ID: images[1], New: 5}, rating.Data)

	var selection struct {
		Seq  uint64                     `json:"seq"`
		Type string                     `json:"type"`
		Data imagerater.SelectionChange `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&selection))
	assert.Equal(t, uint64(2), selection.Seq)
	assert.Equal(t, string(events.SelectionChanged), selection.Type)
	assert.Equal(t, imagerater.SelectionChange{New: images[1]}, selection.Data)
}

func TestFilterChangeReachesSSEStream(t *testing.T) {
	p := newPipeline(t)

	ts := httptest.NewServer(p.broadcaster)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Eventually(t, func() bool { return p.broadcaster.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	p.rater.SetFilter(filter.Unrated())

	frames := readFrames(bufio.NewScanner(resp.Body), 2)
	require.Len(t, frames, 2)
	assert.Equal(t, "connected", frames[0]["event"])

	got := frames[1]
	assert.Equal(t, string(events.FilterChanged), got["event"])
	assert.Equal(t, "1", got["id"])
	var change imagerater.FilterChange
	require.NoError(t, json.Unmarshal([]byte(got["data"]), &change))
	assert.Equal(t, imagerater.FilterChange{Old: filter.All(), New: filter.Unrated()}, change)
}

// readFrames parses up to n SSE frames into field maps.
func readFrames(sc *bufio.Scanner, n int) []map[string]string {
	var frames []map[string]string
	frame := map[string]string{}
	for len(frames) < n && sc.Scan() {
		line := sc.Text()
		if line == "" {
			frames = append(frames, frame)
			frame = map[string]string{}
			continue
		}
		if field, value, ok := strings.Cut(line, ": "); ok {
			frame[field] = value
		}
	}
	return frames
}
