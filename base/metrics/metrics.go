/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
*/
package metrics

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/x-xyz/rwat-deployer/base/env"
	"github.com/x-xyz/rwat-deployer/base/log"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	tags := []string{
		"host:", // remove unused host tag
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if pod := env.PodName(); pod != "" {
		tags = append(tags, "pod:"+pod)
	}
	return &Metrics{pkgName: pkgName, tags: tags}
}

type Metrics struct {
	pkgName string
	tags    []string
}

func (mt *Metrics) key(k string) string {
	return mt.pkgName + "." + k
}

func (mt *Metrics) recoverBump(fn, key string, tags []string) {
	if err := recover(); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "func": fn, "key": mt.key(key), "tags": strings.Join(tags, "#")}).Error("bump panic")
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverBump("BumpAvg", key, tags)
	if err := client().Gauge(mt.key(key), val, append(mt.tags, parseTag(tags)...), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpAvg"}).Error("Bump fail")
	}
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverBump("BumpSum", key, tags)
	if err := client().Count(mt.key(key), int64(val), append(mt.tags, parseTag(tags)...), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpSum"}).Error("Bump fail")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverBump("BumpHistogram", key, tags)
	if err := client().Histogram(mt.key(key), val, append(mt.tags, parseTag(tags)...), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpHistogram"}).Error("Bump fail")
	}
}

// BumpTime starts a timer; call End on the result to record it.
//
//     defer s.BumpTime("deploy.time").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		start: timeNow(),
		key:   mt.key(key),
		tags:  append(append([]string{}, mt.tags...), parseTag(tags)...),
	}
}
