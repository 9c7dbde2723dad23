package zerolog_config

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.elastic.co/ecszerolog"
)

var appPrefix string
var setAppPrefixOnce = &sync.Once{}
var startupLoggerOnce = &sync.Once{}

var esHTTPClient = &http.Client{Timeout: 5 * time.Second}

// ElasticsearchWriter ships each JSON log line to an Elasticsearch index
type ElasticsearchWriter struct {
	URL string
}

func (ew ElasticsearchWriter) Write(p []byte) (n int, err error) {
	resp, err := esHTTPClient.Post(
		ew.URL+"/_doc",
		"application/json",
		bytes.NewReader(p),
	)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("elasticsearch returned %d", resp.StatusCode)
	}

	return len(p), nil
}

// ParseLevel maps API_LOG_LEVEL onto a zerolog level. Unknown or empty
// values fall back to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

func newLogger(elasticsearchURL, subAddress string, console io.Writer) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}

	if elasticsearchURL == "" {
		return zerolog.New(consoleWriter).With().Str("app", appPrefix).
			Timestamp().Logger()
	}

	// ECS to Elasticsearch plus pretty console
	ecsLogger := ecszerolog.New(&ElasticsearchWriter{
		URL: strings.TrimRight(elasticsearchURL, "/") + "/" + subAddress,
	})
	multi := zerolog.MultiLevelWriter(ecsLogger, consoleWriter)

	return zerolog.New(multi).With().Str("app", appPrefix).
		Timestamp().Logger()
}

// SetAppPrefix sets the app prefix
func SetAppPrefix(prefix string) {
	setAppPrefixOnce.Do(func() {
		appPrefix = prefix
	})
}

// StartupWithEnv sets up the global logger. An empty elasticsearchURL logs
// to the console only. Run SetAppPrefix first.
func StartupWithEnv(elasticsearchURL, subAddress, level string) error {
	if subAddress == "" {
		return fmt.Errorf("subAddress is required")
	}
	startupLoggerOnce.Do(func() {
		zerolog.SetGlobalLevel(ParseLevel(level))
		log.Logger = newLogger(elasticsearchURL, subAddress, os.Stdout)
	})
	return nil
}
