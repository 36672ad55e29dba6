package live

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng762/stolen-report/common"
	"github.com/cheng762/stolen-report/service/board"
	"github.com/cheng762/stolen-report/service/data_adaptor"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_SendsCurrentThenBroadcasts(t *testing.T) {
	b := board.New(10)
	b.Replace([]data_adaptor.RawCollection{{
		Contract:      "0xA",
		Total:         data_adaptor.Count{Value: 5, Valid: true},
		FloorAskPrice: data_adaptor.NewAmount("2"),
	}})
	hub := NewHub(b.Snapshot, common.DiscardLogger())
	b.OnRebuild(hub.Broadcast)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	first := readMessage(t, conn)
	assert.Equal(t, "views", first.Type)
	assert.Equal(t, 1, first.Records)
	assert.Equal(t, 10.0, first.Summary.TotalValue)
	require.Len(t, first.ByValue, 1)
	assert.Equal(t, "0xA", first.ByValue[0].ContractAddress)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	b.Merge([]data_adaptor.RawCollection{{Contract: "0xB", Total: data_adaptor.Count{Value: 9, Valid: true}}})

	second := readMessage(t, conn)
	assert.Equal(t, 2, second.Records)
	assert.Equal(t, int64(14), second.Summary.TotalStolen)
	assert.Equal(t, "0xB", second.ByCount[0].ContractAddress)
}

func TestHub_ClientDisconnectIsRemoved(t *testing.T) {
	hub := NewHub(nil, common.DiscardLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(nil, common.DiscardLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	dial(t, srv)
	dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())
}

// 连接建立期间发生的重算也要推给新客户端
func TestHub_RebuildDuringConnectIsDelivered(t *testing.T) {
	b := board.New(10)
	b.Replace([]data_adaptor.RawCollection{{Contract: "0xA", Total: data_adaptor.Count{Value: 1, Valid: true}}})

	var once sync.Once
	merged := make(chan struct{})
	current := func() *board.Snapshot {
		snap := b.Snapshot()
		once.Do(func() {
			go func() {
				defer close(merged)
				b.Merge([]data_adaptor.RawCollection{{Contract: "0xB", Total: data_adaptor.Count{Value: 2, Valid: true}}})
			}()
			// 给重算留出时间，让它落在读取快照和注册之间
			time.Sleep(50 * time.Millisecond)
		})
		return snap
	}
	hub := NewHub(current, common.DiscardLogger())
	b.OnRebuild(hub.Broadcast)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	first := readMessage(t, conn)
	assert.Equal(t, 1, first.Records)
	second := readMessage(t, conn)
	assert.Equal(t, 2, second.Records)
	<-merged
}
