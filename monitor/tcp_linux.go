package monitor

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

func tuneTCP(conn net.Conn, timeout time.Duration) error {
	tcp, ok := conn.(*net.TCPConn)
	if timeout == 0 || !ok {
		return nil
	}
	raw, err := tcp.SyscallConn()
	if err != nil {
		return fmt.Errorf("failed to tune TCP socket: %w", err)
	}
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, int(timeout/time.Millisecond))
	}); err != nil {
		return fmt.Errorf("failed to tune TCP socket: %w", err)
	}
	if sockErr != nil {
		return fmt.Errorf("failed to tune TCP socket: %w", sockErr)
	}
	return nil
}
