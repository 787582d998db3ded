// Package common holds helpers shared by the tool packages, notably
// the instrumented handler wrapper that records metrics for every
// tool invocation.
package common
