// Package process cleans up headless browser processes left behind by
// rendering, including the renderer and GPU children Chrome forks.
package process
