// Package demo is the root of the sample component set the iocdemo command
// starts a container over. The components live in the services and
// components subpackages and register themselves with catalog.Default.
package demo
