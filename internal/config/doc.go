// Package config defines the composition parameters and their sources.
//
// [Parameters] is read once at composition start from a flat key/value map.
// The map can come from a YAML file ([LoadFile]), from CLI --set flags, or
// both. Legacy key names are accepted as aliases. Accepted-risk exceptions
// travel next to the parameters so audits can see every suppressed finding
// in one place.
package config
