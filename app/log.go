// SPDX-License-Identifier: Unlicense OR MIT

package app

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'arkgesture.app'.
func tracer() tracing.Trace {
	return tracing.Select("arkgesture.app")
}
