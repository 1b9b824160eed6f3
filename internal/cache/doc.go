// Package cache provides persistent storage for named JSON artifacts.
//
// Supports two storage backends with different security tradeoffs:
//   - File: Per-user cache directory with secure permissions
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//
// An artifact is a single JSON document addressed by name (e.g. "tokens.json").
// A missing artifact is a normal "no cached value" result, not an error.
package cache
