package utils

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	log "github.com/sirupsen/logrus"
)

// FluentConfig describes the Fluent Bit forward input
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
}

type fluentPoster interface {
	Post(tag string, message any) error
}

// FluentHook ships log entries to Fluent Bit, tagged by level
type FluentHook struct {
	client fluentPoster
	levels []log.Level
}

// NewFluentClient connects to Fluent Bit. No handshake happens until the first post.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return client, nil
}

// AddFluentHook forwards every entry at the current level or above to client
func AddFluentHook(client fluentPoster) {
	log.AddHook(newFluentHook(client, log.GetLevel()))
}

func newFluentHook(client fluentPoster, minLevel log.Level) *FluentHook {
	var levels []log.Level
	for _, l := range log.AllLevels {
		if l <= minLevel {
			levels = append(levels, l)
		}
	}
	return &FluentHook{client: client, levels: levels}
}

func (h *FluentHook) Levels() []log.Level { return h.levels }

func (h *FluentHook) Fire(entry *log.Entry) error {
	data := make(map[string]any, len(entry.Data)+3)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	data["timestamp"] = entry.Time.UTC().Format(time.RFC3339Nano)

	return h.client.Post(entry.Level.String(), data)
}
