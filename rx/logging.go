package rx

import "github.com/7vars/combine"

var logger = combine.NewLogger().WithField("component", "rx")

// SetLogger replaces the logger the package reports through.
func SetLogger(l combine.Logger) {
	logger = l
}
