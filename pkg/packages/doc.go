// Package packages reads the inputs that name what goes into an
// environment: the package list (JSON, or YAML from a file), the optional
// extra paths file and the propagated-user-env-packages lists found inside
// package outputs.
package packages
