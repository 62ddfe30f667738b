// Package project materializes a new Help Center theme project. Run drives
// a linear sequence of stages (fetch, extract, customize and, on request,
// styling integration) against one destination directory and stops at the
// first failure, leaving whatever was already written in place.
package project
