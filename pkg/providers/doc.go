// Package providers groups the analytics backend adapters.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/analytical/pkg/providers/provider]: Provider interface (the capability set), optional capability interfaces, and the embeddable Module base with the location gate and empty defaults
//   - [github.com/germanamz/analytical/pkg/providers/google]: asynchronous `_gaq` adapter with immediate custom variables
//   - [github.com/germanamz/analytical/pkg/providers/googlelegacy]: `_gaq` variant with deferred custom variables and the legacy event call
//   - [github.com/germanamz/analytical/pkg/providers/kissmetrics]: `_kmq` adapter
//   - [github.com/germanamz/analytical/pkg/providers/clicky]: `clicky` adapter
//
// This package contains no provider-specific code.
package providers
