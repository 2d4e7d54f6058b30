// package tasks implements the long-running beatmapset operations.
//
// Monitor drives periodic status checks over the tracked library, Browser
// aggregates paginated search streams, and CoverPool downloads cover art
// through a bounded worker pool. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks
