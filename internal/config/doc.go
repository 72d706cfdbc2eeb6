// Package config loads mdq defaults from a .mdq.yaml file and MDQ_*
// environment variables.
package config
