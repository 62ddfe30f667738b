// Package config manages hcli settings stored in ~/.hcli/config.yaml.
// Values can be overridden through HCLI_-prefixed environment variables and
// are resolved into a Settings value that callers pass down explicitly.
package config
