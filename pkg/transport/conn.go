package transport

import (
	"net"
	"time"
)

// deadlineConn renews the read deadline before every Read, so the timeout
// bounds each wait for data rather than the whole exchange.
type deadlineConn struct {
	net.Conn
	readTimeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}
