//go:build tools

// Package lint pins the linters run against the module. It lives in its own
// module so the main go.mod only lists what the library and the CLI import.
//
// Usage from the repository root:
//
//	go run -modfile=tools/lint/go.mod github.com/golangci/golangci-lint/v2/cmd/golangci-lint run ./...
//	go run -modfile=tools/lint/go.mod honnef.co/go/tools/cmd/staticcheck ./...
package lint
