// Package resource limits batch annotation.
//
// A Controller combines two limits:
//
//   - Concurrency: a weighted semaphore bounds how many documents are
//     annotated at once.
//   - Pacing: an optional token bucket caps how many documents start per
//     second, so a batch does not starve an annotator backed by a remote
//     service.
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers: 4,
//	    DocsPerSec: 50,
//	})
//
//	if err := rc.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer rc.Release()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully: they become no-ops.
package resource
