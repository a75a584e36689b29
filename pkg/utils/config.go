package utils

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Addr    string
	DevMode bool
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("PODHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dev := false
	if v := os.Getenv("PODHUB_DEV_MODE"); v != "" {
		dev, _ = strconv.ParseBool(v)
	}

	return ServerConfig{
		Addr:    addr,
		DevMode: dev,
	}
}

type ITunesConfig struct {
	BaseURL string
	Timeout time.Duration
}

func LoadITunesConfig() ITunesConfig {
	base := os.Getenv("PODHUB_ITUNES_URL")

	// timeout in seconds; if parse fails, fallback to 10s
	timeout := 10 * time.Second
	if v := os.Getenv("PODHUB_ITUNES_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return ITunesConfig{
		BaseURL: base,
		Timeout: timeout,
	}
}
