// Package config defines the format-agnostic model of a character
// description, along with the Loader interface that fills it from a
// concrete source.
//
// The `config.Model` is what the app applies to a scene. Concrete loaders,
// such as the HCL one, live in separate packages.
package config
