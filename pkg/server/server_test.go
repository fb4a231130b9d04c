package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/savebox/go/savebox/pkg/save/record"
	"github.com/provide-io/savebox/go/savebox/pkg/save/session"
)

// fakeBackend records the calls it receives
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// take returns the calls seen so far and forgets them
func (f *fakeBackend) take() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.calls
	f.calls = nil
	return calls
}

func (f *fakeBackend) UploadSave(path string) session.UploadResult {
	f.record("upload " + path)
	return session.UploadResult{
		GameID:   "unbound",
		BoxCount: 25,
		Boxes:    []record.PokemonRecord{},
		Titles:   []string{"Box 1"},
	}
}

func (f *fakeBackend) UpdateSave(editedPath, originalPath string) string {
	f.record("update " + editedPath + " " + originalPath)
	return strings.TrimSuffix(originalPath, ".sav") + "_new.sav"
}

func (f *fakeBackend) ConvertOldCloudFile(path string) session.ConvertResult {
	f.record("convert " + path)
	return session.ConvertResult{Completed: true}
}

func testServer(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	logger := hclog.New(&hclog.LoggerOptions{Name: "server_test", Level: hclog.Trace})
	ts := httptest.NewServer(New(backend, logger).Handler())
	t.Cleanup(ts.Close)
	return ts, backend
}

func TestHTTPRoutes(t *testing.T) {
	ts, backend := testServer(t)

	testCases := []struct {
		name   string
		path   string
		status int
		data   string
		call   string
	}{
		{
			name:   "upload",
			path:   "/uploadsave?saveFilePath=" + url.QueryEscape("/tmp/a b.sav"),
			status: http.StatusOK,
			data:   `{"gameId":"unbound","boxCount":25,"boxes":[],"titles":["Box 1"],"randomizer":false,"inaccessibleReason":"","oldVersion":""}`,
			call:   "upload /tmp/a b.sav",
		},
		{
			name:   "update",
			path:   "/updatesave?updatedDataJSON=/tmp/e.json&originalSaveFilePath=/tmp/game.sav",
			status: http.StatusOK,
			data:   `"/tmp/game_new.sav"`,
			call:   "update /tmp/e.json /tmp/game.sav",
		},
		{
			name:   "convert",
			path:   "/convertoldcloudfile?cloudFilePath=/tmp/c.json",
			status: http.StatusOK,
			data:   `{"completed":true,"errorMsg":""}`,
			call:   "convert /tmp/c.json",
		},
		{
			name:   "health",
			path:   "/health",
			status: http.StatusOK,
			data:   `"ok"`,
		},
		{
			name:   "upload_missing_path",
			path:   "/uploadsave",
			status: http.StatusBadRequest,
			data:   `""`,
		},
		{
			name:   "update_missing_original",
			path:   "/updatesave?updatedDataJSON=/tmp/e.json",
			status: http.StatusBadRequest,
			data:   `""`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend.take()

			resp, err := http.Get(ts.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.JSONEq(t, tc.data, string(body["data"]))

			if tc.call == "" {
				assert.Empty(t, backend.take())
			} else {
				assert.Equal(t, []string{tc.call}, backend.take())
			}
		})
	}
}

func TestWebSocketCommands(t *testing.T) {
	ts, _ := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	testCases := []struct {
		name    string
		message string
		id      string
		data    string
	}{
		{"upload", `{"id":"1","command":"upload_save","args":["/tmp/a.sav"]}`, "1", `{"gameId":"unbound","boxCount":25,"boxes":[],"titles":["Box 1"],"randomizer":false,"inaccessibleReason":"","oldVersion":""}`},
		{"update", `{"id":"2","command":"UPDATE_SAVE","args":["/tmp/e.json","/tmp/g.sav"]}`, "2", `"/tmp/g_new.sav"`},
		{"convert", `{"id":"3","command":"CONVERT_OLD_CLOUD_FILE","args":["/tmp/c.json"]}`, "3", `{"completed":true,"errorMsg":""}`},
		{"missing_args", `{"id":"4","command":"UPDATE_SAVE","args":["/tmp/e.json"]}`, "4", `""`},
		{"unknown", `{"id":"5","command":"DELETE_SAVE"}`, "5", `""`},
		{"malformed", `not json`, "", `""`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tc.message)))

			var resp struct {
				ID   string          `json:"id"`
				Data json.RawMessage `json:"data"`
			}
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
			require.NoError(t, conn.ReadJSON(&resp))
			assert.Equal(t, tc.id, resp.ID)
			assert.JSONEq(t, tc.data, string(resp.Data))
		})
	}
}

func TestDispatch(t *testing.T) {
	backend := &fakeBackend{}

	assert.Equal(t, "", Dispatch(backend, "", nil))
	assert.Equal(t, "", Dispatch(backend, "UPLOAD_SAVE", nil))
	assert.Equal(t, "/x_new.sav", Dispatch(backend, "update_save", []string{"/e.json", "/x.sav"}))
	assert.Equal(t, session.ConvertResult{Completed: true}, Dispatch(backend, "Convert_Old_Cloud_File", []string{"/c.json"}))
	assert.Equal(t, []string{"update /e.json /x.sav", "convert /c.json"}, backend.take())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(&fakeBackend{}, nil).ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
