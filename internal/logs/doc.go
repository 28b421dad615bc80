// Package logs reads the rotated client and daemon log files.
//
// Last returns the final lines of a file with bounded memory, and Follow polls
// for appended lines, restarting from the top when lumberjack rotates the file
// underneath it.
package logs
