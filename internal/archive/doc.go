// Package archive extracts zip and gzip'd tar archives into a billy
// filesystem. A fixed number of leading path components is stripped from
// every entry, and entries that would land outside the destination root are
// rejected before anything is written for them.
package archive
