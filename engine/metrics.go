package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kestrel-labs/tessera/tile"
)

const tilesetLabel = "tileset"

var (
	framesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tessera_frames_processed",
		Help: "The number of frames the traversal core has completed.",
	}, []string{tilesetLabel})

	tilesInFrustum = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tessera_tiles_in_frustum",
		Help: "The number of tiles FrustumPass marked in frustum last frame.",
	}, []string{tilesetLabel})

	tilesUsed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tessera_tiles_used",
		Help: "The number of tiles LeafMarkPass visited last frame.",
	}, []string{tilesetLabel})

	tilesVisible = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tessera_tiles_visible",
		Help: "The number of tiles marked visible last frame.",
	}, []string{tilesetLabel})

	tilesActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tessera_tiles_active",
		Help: "The number of tiles marked active last frame.",
	}, []string{tilesetLabel})
)

// ObserverWithMetrics wraps inner, publishing per-frame Stats to Prometheus
// before forwarding the frame to inner.
func ObserverWithMetrics(inner FrameObserver, tileset string) FrameObserver {
	return &observerWithMetrics{FrameObserver: inner, tileset: tileset}
}

type observerWithMetrics struct {
	FrameObserver
	tileset string
}

func (o *observerWithMetrics) ObserveFrame(stats tile.Stats, frameCount uint64) {
	labels := prometheus.Labels{tilesetLabel: o.tileset}

	framesProcessed.With(labels).Inc()
	tilesInFrustum.With(labels).Set(float64(stats.InFrustum))
	tilesUsed.With(labels).Set(float64(stats.Used))
	tilesVisible.With(labels).Set(float64(stats.Visible))
	tilesActive.With(labels).Set(float64(stats.Active))

	o.FrameObserver.ObserveFrame(stats, frameCount)
}
