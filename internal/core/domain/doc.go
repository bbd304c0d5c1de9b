// Package domain contains the core business entities and errors for the
// prompt recommendation engine. It has no dependencies on adapters or
// infrastructure.
package domain
