package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"cavern-combat/internal/engine"
	"cavern-combat/pkg/api"
	"cavern-combat/pkg/logger"

	"github.com/gorilla/websocket"
)

const exampleLayout = `#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######`

func TestMain(m *testing.M) {
	logger.Silence()

	os.Exit(m.Run())
}

func newTestServer(t *testing.T, delay time.Duration) (*httptest.Server, *engine.BattleService) {
	t.Helper()
	cfg := engine.NewConfig()
	cfg.RoundDelay = delay
	cfg.SearchWorkers = 4

	ctx, cancel := context.WithCancel(context.Background())
	svc := engine.NewBattleService(ctx, cfg)
	ts := httptest.NewServer(New(svc, "0").Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return ts, svc
}

func startBattle(t *testing.T, ts *httptest.Server, req api.StartBattleRequest) api.BattleView {
	t.Helper()
	body, _ := json.Marshal(req)
	resp, err := http.Post(ts.URL+"/battles", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var view api.BattleView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	return view
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, 0)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestStartAndGetBattle(t *testing.T) {
	ts, svc := newTestServer(t, 0)

	view := startBattle(t, ts, api.StartBattleRequest{Layout: exampleLayout})
	if view.ID == "" || view.Status != api.StatusRunning {
		t.Fatalf("Unexpected start view: %+v", view)
	}

	sess, ok := svc.Get(view.ID)
	if !ok {
		t.Fatal("Session not registered")
	}
	<-sess.Done()

	resp, err := http.Get(ts.URL + "/battles/" + view.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got api.BattleView
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != api.StatusFinished || got.Outcome == nil || got.Outcome.Score != 27730 {
		t.Errorf("Expected finished battle with score 27730, got %+v", got)
	}

	list, err := http.Get(ts.URL + "/battles")
	if err != nil {
		t.Fatal(err)
	}
	defer list.Body.Close()
	var views []api.BattleView
	if err := json.NewDecoder(list.Body).Decode(&views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].ID != view.ID {
		t.Errorf("Expected one battle in the list, got %+v", views)
	}
}

func TestStartBattle_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t, 0)

	tests := []struct {
		name string
		body string
	}{
		{"Invalid JSON", "{"},
		{"Empty layout", `{"layout": ""}`},
		{"Unknown glyph", `{"layout": "#E?G#"}`},
		{"One faction", `{"layout": "#E.E#"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/battles", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGetBattle_NotFound(t *testing.T) {
	ts, _ := newTestServer(t, 0)

	resp, err := http.Get(ts.URL + "/battles/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestDebugBattles(t *testing.T) {
	ts, svc := newTestServer(t, 0)

	view := startBattle(t, ts, api.StartBattleRequest{Layout: "####\n#GE#\n####"})
	sess, _ := svc.Get(view.ID)
	<-sess.Done()

	resp, err := http.Get(ts.URL + "/debug/battles")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var summary []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 || summary[0]["id"] != view.ID || summary[0]["status"] != api.StatusFinished {
		t.Errorf("Unexpected debug summary: %v", summary)
	}
}

func TestSpectatorStream(t *testing.T) {
	ts, _ := newTestServer(t, 30*time.Millisecond)

	view := startBattle(t, ts, api.StartBattleRequest{Layout: exampleLayout})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?battle=" + view.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(30 * time.Second)); err != nil {
		t.Fatal(err)
	}

	lastRound := -1
	var final *api.RoundSnapshot
	for {
		var snap api.RoundSnapshot
		if err := conn.ReadJSON(&snap); err != nil {
			break
		}
		if snap.BattleID != view.ID {
			t.Fatalf("Snapshot of another battle: %s", snap.BattleID)
		}
		if snap.Round < lastRound {
			t.Errorf("Rounds went backwards: %d after %d", snap.Round, lastRound)
		}
		lastRound = snap.Round
		if snap.Type == api.SnapshotOutcome {
			final = &snap
		}
	}

	if final == nil {
		t.Fatal("Expected an OUTCOME snapshot before the stream closed")
	}
	if final.Outcome == nil || final.Outcome.Score != 27730 || final.Outcome.Winner != "goblin" {
		t.Errorf("Unexpected outcome: %+v", final.Outcome)
	}
	if final.Round != 47 || len(final.Map) != 7 || len(final.Units) != 4 {
		t.Errorf("Unexpected final snapshot: round %d, %d rows, %d units", final.Round, len(final.Map), len(final.Units))
	}
}

func TestSpectatorStream_UnknownBattle(t *testing.T) {
	ts, _ := newTestServer(t, 0)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?battle=missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 response, got %v", resp)
	}
}
