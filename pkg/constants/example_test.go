package constants_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/syncra/paritarias/pkg/constants"
)

// Example_timeouts demonstrates the timeout constants.
func Example_timeouts() {
	client := &http.Client{
		Timeout: constants.DefaultIPCTimeout,
	}

	fmt.Printf("IPC timeout: %v\n", client.Timeout)
	fmt.Printf("Sync timeout: %v\n", constants.SyncTimeout)
	// Output:
	// IPC timeout: 15s
	// Sync timeout: 5m0s
}

// Example_archiveKey demonstrates the archive key layout.
func Example_archiveKey() {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	fmt.Println(at.Format(constants.TimeFormatArchive))
	// Output:
	// 20260301T093000Z
}
