// Package testutil holds helpers shared by the package tests: a context
// carrying a captured logger and temporary character files.
package testutil
