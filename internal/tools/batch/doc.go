// Package batch provides helpers for tools that accept a single ID or
// a list of IDs. Per-item failures are collected instead of aborting
// the batch, and the aggregate is rendered as JSON for the tool
// result.
package batch
