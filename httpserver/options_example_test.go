package httpserver_test

import (
	"fmt"
	"syscall"
	"time"

	"github.com/paykit/go-money/httpserver"
)

func ExampleWithShutdownSignalsOption() {
	opt := httpserver.WithShutdownSignalsOption(
		syscall.SIGINT,
		syscall.SIGTERM)

	fmt.Println(opt)
	// Output: server.ShutdownSignals: [interrupt terminated]
}

func ExampleWithAddress() {
	opt := httpserver.WithAddress(":8080")

	fmt.Println(opt)
	// Output: server.Address: :8080
}

func ExampleWithServerTimeouts() {
	opt := httpserver.WithServerTimeouts(
		time.Nanosecond,
		2*time.Nanosecond,
		3*time.Nanosecond,
		4*time.Nanosecond,
	)

	fmt.Println(opt)
	// Output:
	// server.WriteTimeout: 1
	// server.ReadTimeout: 2
	// server.IdleTimeout: 3
	// server.ReadHeaderTimeout: 4
}
