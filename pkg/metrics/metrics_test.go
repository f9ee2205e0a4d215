package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording event metrics", func() {
			Convey("Then it should record recorded events", func() {
				So(func() {
					RecordEventRecorded()
					RecordEventRecorded()
				}, ShouldNotPanic)
			})

			Convey("And it should record rejected events", func() {
				So(func() {
					RecordEventRejected()
				}, ShouldNotPanic)
			})

			Convey("And it should record append latency", func() {
				So(func() {
					RecordAppendLatency(2.0)
					RecordAppendLatency(8.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording summary metrics", func() {
			So(func() {
				RecordSummaryComputed()
				RecordSummaryCacheHit()
				RecordSummaryCacheMiss()
				RecordSummaryLatency(1.5)
			}, ShouldNotPanic)
		})

		Convey("When recording leaderboard metrics", func() {
			So(func() {
				RecordLeaderboardQuery()
				RecordLeaderboardLatency(3.0)
			}, ShouldNotPanic)
		})

		Convey("When updating gauges", func() {
			So(func() {
				UpdateTotalWallets(42)
				UpdateTotalWallets(0)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("events", "POST", "202")
				RecordHTTPRequestDuration("events", "POST", "202", 4.0)
				RecordErrorByComponent("http", "client_error")
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		registry := GetRegistry()

		Convey("Then it should be available", func() {
			So(registry, ShouldNotBeNil)
		})

		Convey("Then it should gather without error", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(families, ShouldNotBeNil)
		})
	})
}
