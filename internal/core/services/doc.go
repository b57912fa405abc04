// Package services implements the driving port interfaces.
// Services contain the core comparison logic and orchestrate
// calls to driven ports (extractors, cache, example catalog).
//
// The comparison service fans one document out to every extraction
// method concurrently and publishes the results only once all of them
// have finished, so callers never observe a partial result set.
//
// Services import no adapter packages; everything they touch arrives
// through the driven port interfaces.
package services
