// Package metric publishes render counters with expvar. Counters are
// grouped by component type and are safe to update from the render
// callback: every update is a single atomic operation.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/tone/signal"
)

const componentsLabel = "tone.components"

const (
	// BufferCounter measures number of rendered buffers.
	BufferCounter = "Buffers"
	// FrameCounter measures number of rendered frames.
	FrameCounter = "Frames"
	// UnderrunCounter measures number of underruns reported by device.
	UnderrunCounter = "Underruns"
	// DroppedCounter measures number of timestamps dropped because the
	// controller didn't keep up.
	DroppedCounter = "Dropped"
	// LatencyCounter measures latency between render calls.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of rendered signal.
	DurationCounter = "Duration"
	// ComponentCounter counts number of metered components.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		BufferCounter,
		FrameCounter,
		UnderrunCounter,
		DroppedCounter,
		LatencyCounter,
		DurationCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure. This closure is needed to postpone
// metrics capture until component is actually running.
type ResetFunc func() *Measure

// Measure captures metrics of a single running component.
type Measure struct {
	metric         metric
	sampleRate     int
	calledAt       time.Time
	frames         int64
	bufferDuration time.Duration
}

// Meter creates new meter closure to capture component counters.
func Meter(component interface{}, sampleRate int) ResetFunc {
	t := getType(component)
	metric := components.get(t)
	metric.components.Add(1)
	return func() *Measure {
		return &Measure{
			metric:     metric,
			sampleRate: sampleRate,
			calledAt:   time.Now(),
		}
	}
}

// Buffer captures metrics when buffer of frames is rendered.
func (m *Measure) Buffer(frames int64) {
	m.metric.latency.set(time.Since(m.calledAt))
	m.metric.buffers.Add(1)
	m.metric.frames.Add(frames)
	// recalculate buffer duration only when buffer size has changed
	if m.frames != frames {
		m.frames = frames
		m.bufferDuration = signal.DurationOf(m.sampleRate, frames)
	}
	m.metric.duration.add(m.bufferDuration)
	m.calledAt = time.Now()
}

// Underrun counts reported underrun.
func (m *Measure) Underrun() {
	m.metric.underruns.Add(1)
}

// Drop counts dropped timestamp.
func (m *Measure) Drop() {
	m.metric.dropped.Add(1)
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		// return existing metric if available
		return metric
	}
	// create new metric
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	key        string
	components *expvar.Int
	buffers    *expvar.Int
	frames     *expvar.Int
	underruns  *expvar.Int
	dropped    *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(componentType string) metric {
	m := metric{
		key:        componentType,
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		buffers:    expvar.NewInt(key(componentType, BufferCounter)),
		frames:     expvar.NewInt(key(componentType, FrameCounter)),
		underruns:  expvar.NewInt(key(componentType, UnderrunCounter)),
		dropped:    expvar.NewInt(key(componentType, DroppedCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%v", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
