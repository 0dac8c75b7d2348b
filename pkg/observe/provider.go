package observe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/echocat/slf4g"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/blaubaer/talk-practice/pkg/common"
)

const serviceName = "talk-practice"

func NewConfiguration() Configuration {
	return Configuration{}
}

type Configuration struct {
	// Listen is the address where /metrics is served. Empty disables the
	// metrics completely.
	Listen string `yaml:"listen,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("metrics.listen", "Address to serve Prometheus metrics at, like :9464. Empty disables metrics.").
		Envar(common.Envar("metrics.listen")).
		StringVar(&this.Listen)
}

// Provider sets up the global meter provider and the HTTP endpoint
// serving its values.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	server        *http.Server
	listener      net.Listener
}

func (this *Provider) Initialize(conf *Configuration, version string) error {
	if conf.Listen == "" {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return fmt.Errorf("cannot create metrics resource: %w", err)
	}

	registry := prometheus.NewRegistry()
	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("cannot create prometheus exporter: %w", err)
	}

	ln, err := net.Listen("tcp", conf.Listen)
	if err != nil {
		return fmt.Errorf("cannot listen for metrics at %s: %w", conf.Listen, err)
	}

	this.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(this.meterProvider)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	this.listener = ln
	this.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := this.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Warn("Metrics endpoint stopped unexpectedly.")
		}
	}()

	log.With("address", ln.Addr().String()).
		Info("Metrics are served.")

	return nil
}

// Addr returns the address the metrics endpoint listens on or nil if
// metrics are disabled.
func (this *Provider) Addr() net.Addr {
	if this.listener == nil {
		return nil
	}
	return this.listener.Addr()
}

func (this *Provider) Dispose() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if v := this.server; v != nil {
		errs = append(errs, v.Shutdown(ctx))
		this.server = nil
	}
	if v := this.meterProvider; v != nil {
		errs = append(errs, v.Shutdown(ctx))
		this.meterProvider = nil
	}
	this.listener = nil
	return errors.Join(errs...)
}
