// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The sql.DB pool keeps a connection opener goroutine per handle; it is
	// not a leak.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}
