package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *net.UDPConn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 8192)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &msg))
	return msg
}

func TestWriteZapEntry(t *testing.T) {
	conn := listen(t)
	w, err := New(conn.LocalAddr().String(), "putmeonmap")
	require.NoError(t, err)
	defer w.Close()

	line := `{"level":"warn","ts":1700000000.5,"msg":"all-submissions unreadable","path":"submissions/all-submissions.json"}` + "\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	msg := readMessage(t, conn)
	assert.Equal(t, "1.1", msg["version"])
	assert.Equal(t, "all-submissions unreadable", msg["short_message"])
	assert.EqualValues(t, 4, msg["level"])
	assert.EqualValues(t, 1700000000.5, msg["timestamp"])
	assert.Equal(t, "putmeonmap", msg["_service"])
	assert.Equal(t, "submissions/all-submissions.json", msg["_path"])
}

func TestWritePlainText(t *testing.T) {
	conn := listen(t)
	w, err := New(conn.LocalAddr().String(), "putmeonmap")
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("not json\n"))
	require.NoError(t, err)

	msg := readMessage(t, conn)
	assert.Equal(t, "not json", msg["short_message"])
	assert.EqualValues(t, 6, msg["level"])
}

func TestSyslogLevel(t *testing.T) {
	assert.Equal(t, 7, syslogLevel("debug"))
	assert.Equal(t, 3, syslogLevel("error"))
	assert.Equal(t, 1, syslogLevel("fatal"))
	assert.Equal(t, 6, syslogLevel("unknown"))
}
