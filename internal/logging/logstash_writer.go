package logging

import (
	"io"
	"net"
	"sync"
	"time"
)

// LogstashWriter ships log lines over TCP. Writes never fail the caller:
// when the sink is unreachable the line is dropped and a reconnect is
// attempted on the next write.
type LogstashWriter struct {
	addr    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

func NewLogstashWriter(addr string, timeout time.Duration) *LogstashWriter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LogstashWriter{addr: addr, timeout: timeout}
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, err := net.DialTimeout("tcp", w.addr, w.timeout)
		if err != nil {
			return len(p), nil
		}
		w.conn = conn
	}

	_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	if _, err := w.conn.Write(p); err != nil {
		_ = w.conn.Close()
		w.conn = nil
		return len(p), nil
	}
	return len(p), nil
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// Tee fans a log stream out to stdout and the remote sink.
func Tee(primary io.Writer, shipper *LogstashWriter) io.Writer {
	if shipper == nil {
		return primary
	}
	return io.MultiWriter(primary, shipper)
}
