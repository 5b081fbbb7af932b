// Package prometheus records conversion run metrics and writes them in the
// node_exporter textfile format at the end of a run.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "narrate"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder holds the metrics of one process. Each Recorder owns its registry
// so independent runs (and tests) never share counters.
type Recorder struct {
	registry *prometheus.Registry

	chunksTotal       *prometheus.CounterVec
	synthesisDuration *prometheus.HistogramVec
	chunkCharacters   prometheus.Histogram
	pcmBytesTotal     *prometheus.CounterVec
	audioSeconds      prometheus.Gauge
	runDuration       *prometheus.HistogramVec
	extractionsTotal  *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all metrics registered. When
// withRuntime is true the Go and process collectors are registered as well.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		chunksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chunks_total",
				Help:      "Total number of chunks sent to a TTS backend",
			},
			[]string{"backend", "status"}, // status: success, error
		),

		synthesisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "synthesis_duration_seconds",
				Help:      "Duration of TTS backend calls in seconds",
				Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"backend"},
		),

		chunkCharacters: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chunk_characters",
				Help:      "Size of synthesized chunks in characters",
				Buckets:   prometheus.ExponentialBuckets(250, 2, 7), // 250 .. 16000
			},
		),

		pcmBytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pcm_bytes_total",
				Help:      "Total PCM bytes returned by TTS backends",
			},
			[]string{"backend"},
		),

		audioSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "output_audio_seconds",
				Help:      "Playback length of the last written output file",
			},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of complete conversions in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
			},
			[]string{"status"}, // status: success, error
		),

		extractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "Total number of text extractions by cache outcome",
			},
			[]string{"cache"}, // cache: hit, miss
		),
	}

	r.registry.MustRegister(
		r.chunksTotal,
		r.synthesisDuration,
		r.chunkCharacters,
		r.pcmBytesTotal,
		r.audioSeconds,
		r.runDuration,
		r.extractionsTotal,
	)
	if withRuntime {
		r.registry.MustRegister(collectors.NewGoCollector())
		r.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return r
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordChunk records one backend call.
func (r *Recorder) RecordChunk(backend string, chars, pcmBytes int, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.chunksTotal.WithLabelValues(backend, status).Inc()
	r.synthesisDuration.WithLabelValues(backend).Observe(duration.Seconds())
	r.chunkCharacters.Observe(float64(chars))
	if err == nil {
		r.pcmBytesTotal.WithLabelValues(backend).Add(float64(pcmBytes))
	}
}

// RecordRun records a complete conversion and, on success, the length of
// the audio written.
func (r *Recorder) RecordRun(duration, audio time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.runDuration.WithLabelValues(status).Observe(duration.Seconds())
	if err == nil {
		r.audioSeconds.Set(audio.Seconds())
	}
}

// RecordExtraction records whether extracted text came from the cache.
func (r *Recorder) RecordExtraction(cached bool) {
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	r.extractionsTotal.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format,
// atomically, for collection by node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
