package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/rwat-deployer/base/log"
)

const (
	clientsSize    = 4 // needs to be 2^n
	clientsIdxMask = clientsSize - 1

	// DdPort is the dogstatsd port on DdHost.
	DdPort = 8125

	// buffer 10 counters before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}

	clientsIdx = int32(0)
	clients    []statsCli
)

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// initClients connects to the datadog agent when datadog_host is configured.
// A deployer run from a laptop has no agent, so metrics fall back to debug logs.
func initClients() {
	host := viper.GetString("datadog_host")
	clients = make([]statsCli, clientsSize)
	if host == "" {
		for i := range clients {
			clients[i] = &LogClient{}
		}
		return
	}

	addr := fmt.Sprintf("%s:%d", host, DdPort)
	for i := range clients {
		log.Log().WithFields(log.Fields{"addr": addr, "idx": i}).Info("connecting to datadog agent")
		c, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Error("can't talk to datadog agent, using log client")
			clients[i] = &LogClient{}
			continue
		}
		clients[i] = c
	}
}

func client() statsCli {
	initOnce.Do(initClients)
	i := atomic.AddInt32(&clientsIdx, 1) & clientsIdxMask
	return clients[i]
}

func parseTag(tags []string) []string {
	if tags == nil {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type timeTracker struct {
	start time.Time
	key   string
	tags  []string
}

func (tt *timeTracker) End() {
	d := time.Since(tt.start)
	dur := float64(d) / float64(time.Millisecond)
	if err := client().TimeInMilliseconds(tt.key, dur, tt.tags, 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": tt.key, "val": dur, "func": "BumpTime"}).Error("Bump fail")
	}
}

var timeNow = time.Now
