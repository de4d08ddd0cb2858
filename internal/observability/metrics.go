package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jakechorley/binfill/pkg/core/model"
)

// RunCollector bundles the Prometheus metrics of a model run. It implements
// services.RunRecorder.
type RunCollector struct {
	gatherer prometheus.Gatherer

	UsersProcessed         prometheus.Counter
	UsersFailed            *prometheus.CounterVec
	UsersWithoutProduction prometheus.Counter
	DistributedQuantity    *prometheus.CounterVec
	PlausibleContainers    *prometheus.HistogramVec
	ContainerFilling       *prometheus.GaugeVec
	ContainerFillRatio     *prometheus.GaugeVec
}

// NewRunCollector registers the run metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewRunCollector(reg prometheus.Registerer) (*RunCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	processed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binfill_users_processed_total",
		Help: "Users whose production was distributed.",
	}), "binfill_users_processed_total")
	if err != nil {
		return nil, err
	}

	failed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "binfill_users_failed_total",
		Help: "Users left out of the run, labeled by failure reason.",
	}, []string{"reason"}), "binfill_users_failed_total")
	if err != nil {
		return nil, err
	}

	noProduction, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binfill_users_without_production_total",
		Help: "Users whose type has no standard production.",
	}), "binfill_users_without_production_total")
	if err != nil {
		return nil, err
	}

	distributed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "binfill_distributed_quantity_total",
		Help: "Quantity credited to containers, labeled by waste fraction.",
	}, []string{"fraction"}), "binfill_distributed_quantity_total")
	if err != nil {
		return nil, err
	}

	plausible, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "binfill_plausible_containers",
		Help:    "Number of plausible containers per user and fraction.",
		Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 15},
	}, []string{"fraction"}), "binfill_plausible_containers")
	if err != nil {
		return nil, err
	}

	filling, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "binfill_container_filling",
		Help: "Container fill level at the end of the run.",
	}, []string{"container", "zone", "fraction"}), "binfill_container_filling")
	if err != nil {
		return nil, err
	}

	ratio, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "binfill_container_fill_ratio",
		Help: "Container fill level over capacity at the end of the run.",
	}, []string{"container", "zone", "fraction"}), "binfill_container_fill_ratio")
	if err != nil {
		return nil, err
	}

	return &RunCollector{
		gatherer:               gatherer,
		UsersProcessed:         processed,
		UsersFailed:            failed,
		UsersWithoutProduction: noProduction,
		DistributedQuantity:    distributed,
		PlausibleContainers:    plausible,
		ContainerFilling:       filling,
		ContainerFillRatio:     ratio,
	}, nil
}

func (c *RunCollector) UserProcessed() {
	c.UsersProcessed.Inc()
}

func (c *RunCollector) UserFailed(reason string) {
	c.UsersFailed.WithLabelValues(reason).Inc()
}

func (c *RunCollector) UserWithoutProduction() {
	c.UsersWithoutProduction.Inc()
}

func (c *RunCollector) PlausibleSet(fraction string, size int) {
	c.PlausibleContainers.WithLabelValues(fraction).Observe(float64(size))
}

func (c *RunCollector) Distributed(fraction string, quantity float64) {
	c.DistributedQuantity.WithLabelValues(fraction).Add(quantity)
}

func (c *RunCollector) ContainerFill(container *model.Container) {
	c.ContainerFilling.WithLabelValues(container.ItemID, container.Zone, container.Fraction).Set(container.Filling())
	c.ContainerFillRatio.WithLabelValues(container.ItemID, container.Zone, container.Fraction).Set(container.FillRatio())
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// for pickup by the node exporter textfile collector
func (c *RunCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
