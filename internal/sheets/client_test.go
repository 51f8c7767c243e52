package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"slack-crawl-notifier/internal/slack"
)

func TestMessageRow(t *testing.T) {
	row := messageRow(slack.Message{
		Username:       "alice",
		Text:           "hi",
		Timestamp:      "1000.1",
		AttachmentText: "img",
		ReactionNames:  []string{"+1", "eyes"},
	})
	assert.Equal(t, []interface{}{"1000.1", "alice", "hi", "img", "+1, eyes"}, row)
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'C123'!A:A", sheetRange("C123", "A:A"))
	assert.Equal(t, "'it''s'!A1:E1", sheetRange("it's", "A1:E1"))
}

func TestReadCredentials(t *testing.T) {
	inline, err := readCredentials(`{"type": "service_account"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"type": "service_account"}`, string(inline))

	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from": "file"}`), 0600))

	fromFile, err := readCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, `{"from": "file"}`, string(fromFile))

	_, err = readCredentials(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClient_AppendMessages_SkipsExisting(t *testing.T) {
	var (
		mu       sync.Mutex
		appended [][]interface{}
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			var body struct {
				Values [][]interface{} `json:"values"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			appended = append(appended, body.Values...)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"updates": {"updatedRows": 1}}`))
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			_, _ = w.Write([]byte(`{"range": "C1!A1:A2", "values": [["ts"], ["1.0"]]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), "",
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	written, err := client.AppendMessages(context.Background(), "sheet-id", "C1", []slack.Message{
		{Timestamp: "1.0", Username: "old"},
		{Timestamp: "2.0", Username: "new", ReactionNames: []string{}},
		{Timestamp: "2.0", Username: "duplicate"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, appended, 1)
	assert.Equal(t, []interface{}{"2.0", "new", "", "", ""}, appended[0])
}
