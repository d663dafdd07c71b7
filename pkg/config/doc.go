// Package config loads environment-tagged configuration structs. A .env file
// is applied once per process before the first parse, so local development
// needs no exported variables.
package config
