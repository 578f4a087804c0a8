// Package config loads capability catalogs from YAML.
package config
