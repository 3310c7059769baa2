package metrics

import (
	"github.com/x-xyz/rwat-deployer/base/log"
)

// LogClient stands in for statsd when no agent is configured, each metric
// becomes a debug line.
type LogClient struct{}

func (lc *LogClient) emit(kind, name string, val interface{}, tags []string) error {
	fields := log.Fields{"metric": kind, "key": name, "val": val}
	if len(tags) > 0 {
		fields["tags"] = tags
	}
	log.Log().WithFields(fields).Debug("metric")
	return nil
}

func (lc *LogClient) Gauge(name string, value float64, tags []string, rate float64) error {
	return lc.emit("gauge", name, value, tags)
}

func (lc *LogClient) Count(name string, value int64, tags []string, rate float64) error {
	return lc.emit("count", name, value, tags)
}

func (lc *LogClient) Histogram(name string, value float64, tags []string, rate float64) error {
	return lc.emit("histogram", name, value, tags)
}

func (lc *LogClient) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	return lc.emit("time_ms", name, value, tags)
}
