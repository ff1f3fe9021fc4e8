// Package combine carries the configuration, logging and error plumbing shared
// by the rx stream library and the playground.
package combine
