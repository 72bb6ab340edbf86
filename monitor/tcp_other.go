//go:build !linux

package monitor

import (
	"net"
	"time"
)

func tuneTCP(net.Conn, time.Duration) error {
	return nil
}
