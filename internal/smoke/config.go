// Package smoke drives a running users API through a full CRUD workflow and
// checks the results.
package smoke

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults. NumUsers is kept small so one run stays well under the server's
// default rate limit of 100 requests per window.
const (
	DefaultBaseURL  = "http://localhost:4000"
	DefaultNumUsers = 10
	DefaultWorkers  = 4
	DefaultTimeout  = 10 * time.Second
)

// Sentinel kinds for smoke failures.
var (
	ErrInvalidConfig = errors.New("invalid smoke config")
	ErrUnexpected    = errors.New("unexpected response")
	ErrVerification  = errors.New("verification failed")
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumUsers int           // Number of users to create
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every request
}

// Validate checks the config and normalizes BaseURL.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case c.NumUsers <= 0:
		return fmt.Errorf("%w: users must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// User mirrors the API's user record.
type User struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Age  float64 `json:"age"`
}

// Stats holds run statistics.
type Stats struct {
	Requests  int64
	Created   int
	Updated   int
	Deleted   int
	Failed    int64
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
