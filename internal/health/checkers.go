package health

import (
	"context"

	"github.com/kabalen/tanong/internal/directory"
)

// DirectoryChecker returns a [Checker] that reports ready when the campus
// directory store answers a ping. The name appears as the "directory" key in
// the /readyz response.
func DirectoryChecker(store directory.Store) Checker {
	return Checker{
		Name: "directory",
		Check: func(ctx context.Context) error {
			return store.Ping(ctx)
		},
	}
}
