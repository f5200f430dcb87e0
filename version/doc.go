// Package version reports the build version of iockit binaries. The
// iocdemo command uses it when the config does not name a version.
package version
