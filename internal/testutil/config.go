package testutil

import (
	"os"
	"strconv"
)

const (
	// Test token environment variables
	TestDiscogsToken = "TEST_DISCOGS_TOKEN"
	TestGeminiKey    = "TEST_GEMINI_API_KEY"
	TestImgBBKey     = "TEST_IMGBB_API_KEY"

	// Default test values when environment variables are not set
	DefaultTestToken = "test-token"
	DefaultTestKey   = "test-key"
)

// GetTestToken returns a test token from environment variable or default
func GetTestToken(envVar, defaultValue string) string {
	if token := os.Getenv(envVar); token != "" {
		return token
	}
	return defaultValue
}

// GetTestDiscogsToken returns the test token for the Discogs API
func GetTestDiscogsToken() string {
	return GetTestToken(TestDiscogsToken, DefaultTestToken)
}

// GetTestGeminiKey returns the test key for the Gemini API
func GetTestGeminiKey() string {
	return GetTestToken(TestGeminiKey, DefaultTestKey)
}

// GetTestImgBBKey returns the test key for the imgbb API
func GetTestImgBBKey() string {
	return GetTestToken(TestImgBBKey, DefaultTestKey)
}

// IsTestMode returns true if we're running in test mode
func IsTestMode() bool {
	testMode := os.Getenv("TEST_MODE")
	if testMode == "" {
		return true // Default to test mode if not specified
	}

	enabled, _ := strconv.ParseBool(testMode)
	return enabled
}
