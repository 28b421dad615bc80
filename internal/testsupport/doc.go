// Package testsupport holds helpers shared by package tests: temp-dir backed
// configs, an opened interviews store, and small media fixtures.
package testsupport
