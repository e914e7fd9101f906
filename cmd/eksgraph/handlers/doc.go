// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package.
// Collaborators are created through package-level factory variables so tests
// can replace them.
package handlers
