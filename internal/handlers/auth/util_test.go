package auth_handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDeviceType(t *testing.T) {
	cases := map[string]string{
		"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)":                 "iPad",
		"Mozilla/5.0 (Linux; Android 14; SM-X710)":                      "Android Tablet",
		"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36": "Android",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)":                     "Windows PC",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)":                  "MacOS",
		"curl/8.5.0":                                                    "Unknown Device",
	}

	for ua, want := range cases {
		assert.Equal(t, want, detectDeviceType(ua), ua)
	}
}
