package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// gathered sums counter and gauge samples of a family from the global registry,
// optionally restricted to samples carrying label=value.
func gathered(family, label, value string) float64 {
	families, err := GetRegistry().Gather()
	if err != nil {
		return -1
	}
	var total float64
	for _, f := range families {
		if f.GetName() != family {
			continue
		}
		for _, m := range f.GetMetric() {
			if label != "" {
				match := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == label && lp.GetValue() == value {
						match = true
					}
				}
				if !match {
					continue
				}
			}
			total += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return total
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applying them to a manager", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithMetricsEnabled(false),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the manager should carry them", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
				So(manager.enabled, ShouldBeFalse)
				So(manager.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When given empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "skillboard")
				So(manager.subsystem, ShouldEqual, "pipeline")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register on that registry", func() {
				So(manager, ShouldNotBeNil)
				manager.refreshCycles.WithLabelValues("participants", "ok").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating two managers on separate registries", func() {
			So(func() {
				NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))
				NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			before := gathered("skillboard_pipeline_refresh_cycles_total", "board", "participants")
			RecordRefreshCycle("participants", "ok", 12.5)
			RecordRefreshCycle("participants", "ok", 9)

			Convey("Then the cycle counter should advance", func() {
				after := gathered("skillboard_pipeline_refresh_cycles_total", "board", "participants")
				So(after-before, ShouldEqual, 2)
			})

			Convey("And the remaining recorders should not panic", func() {
				So(func() {
					SetRefreshInProgress("participants", true)
					SetRefreshInProgress("participants", false)
					RecordFetchLatency("participants", "file", 3)
					AddRowsParsed("participants", 40)
					AddRowsSkipped("participants", "identity", 2)
					AddRowsSkipped("participants", "identity", 0)
					RecordNumericDefault("participants", "badges")
					UpdateEntities("participants", 38)
					UpdateLastSuccess("participants", 1.7e9)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording gauges", func() {
			UpdateEntities("volunteers", 7)
			UpdateTriggerQueueLength(1)

			Convey("Then the gauges should hold the latest value", func() {
				So(gathered("skillboard_pipeline_entities", "board", "volunteers"), ShouldEqual, 7)
				So(gathered("skillboard_pipeline_trigger_queue_length", "", ""), ShouldEqual, 1)
			})
		})

		Convey("When recording cache and queue metrics", func() {
			So(func() {
				RecordCacheFallback("participants", "served")
				RecordCacheWrite("participants", "ok")
				RecordFetchCacheHit("http")
				RecordTriggerEnqueued("volunteers", "timer")
				RecordTriggerDropped("volunteers", "coalesced")
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/api/leaderboard", "GET", "200")
				RecordHTTPRequestDuration("/api/leaderboard", "GET", "200", 1.5)
				RecordErrorByComponent("source", "fetch")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("When gathering from the exported registry", func() {
			RecordRefreshCycle("volunteers", "fallback", 1)
			families, err := GetRegistry().Gather()

			Convey("Then names should carry the namespace", func() {
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if strings.HasPrefix(f.GetName(), "skillboard_pipeline_refresh_cycles_total") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
