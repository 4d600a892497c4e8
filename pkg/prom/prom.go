package prom

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemContacts      = "contact"
	SystemNotifications = "notification"
	SystemQueue         = "queue"
	SystemHTTP          = "http"
	SystemAdmin         = "admin"
)
const (
	MetricContactOperations          = "operations_total"
	MetricNotificationDeliveries     = "deliveries_total"
	MetricNotificationDeliveryTiming = "delivery_duration_seconds"
	MetricNotificationBacklog        = "backlog"
	MetricQueueMessages              = "messages_total"
	MetricHTTPRequests               = "requests_total"
	MetricHTTPRequestDuration        = "request_duration_seconds"
	MetricAdminLoginsDenied          = "logins_denied_total"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogram    = "histogram"
	TypeHistogramVec = "histogramVec"
	TypeGaugeVec     = "gaugeVec"
)

type Config struct {
	Namespace  string
	ListenAddr string
	URI        string
}

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionGaugeVec = make(map[string]*prometheus.GaugeVec)
var MetricCollectionHistogram = make(map[string]prometheus.Histogram)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create registers every metric the site reports. Metrics that already exist
// are kept, so calling it twice is harmless.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	// Contacts
	hasError(CreateMetric(TypeCounterVec, SystemContacts, MetricContactOperations, "operation", "result"))

	// Notifications
	hasError(CreateMetric(TypeCounterVec, SystemNotifications, MetricNotificationDeliveries, "result"))
	hasError(CreateMetric(TypeHistogram, SystemNotifications, MetricNotificationDeliveryTiming))
	hasError(CreateMetric(TypeGaugeVec, SystemNotifications, MetricNotificationBacklog, "mode"))

	// Queue
	hasError(CreateMetric(TypeCounterVec, SystemQueue, MetricQueueMessages, "queue", "result"))

	// HTTP
	hasError(CreateMetric(TypeCounterVec, SystemHTTP, MetricHTTPRequests, "method", "route", "status"))
	hasError(CreateMetric(TypeHistogramVec, SystemHTTP, MetricHTTPRequestDuration, "method", "route"))

	// Admin
	hasError(CreateMetric(TypeCounter, SystemAdmin, MetricAdminLoginsDenied))

	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labelsValues ...string) error {
	switch metricType {
	case TypeCounter:
		return createCounter(metricSubsystem, metricName)
	case TypeCounterVec:
		return createCounterVec(metricSubsystem, metricName, labelsValues)
	case TypeHistogram:
		return createHistogram(metricSubsystem, metricName)
	case TypeHistogramVec:
		return createHistogramVec(metricSubsystem, metricName, labelsValues)
	case TypeGaugeVec:
		return createGaugeVec(metricSubsystem, metricName, labelsValues)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

// ListenAndServer serves the default registry on its own listener.
func ListenAndServer(addr string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	if _, ok := MetricCollectionCounters[subsystem+name]; ok {
		return nil
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help(subsystem, name),
		ConstLabels: defaultLabels,
	})
	if err := prometheus.Register(c); err != nil {
		return err
	}
	MetricCollectionCounters[subsystem+name] = c
	return nil
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	if _, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		return nil
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help(subsystem, name),
		ConstLabels: defaultLabels,
	}, labels)
	if err := prometheus.Register(c); err != nil {
		return err
	}
	MetricCollectionCounterVec[subsystem+name] = c
	return nil
}

func createHistogram(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	if _, ok := MetricCollectionHistogram[subsystem+name]; ok {
		return nil
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help(subsystem, name),
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	})
	if err := prometheus.Register(h); err != nil {
		return err
	}
	MetricCollectionHistogram[subsystem+name] = h
	return nil
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	if _, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		return nil
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help(subsystem, name),
		ConstLabels: defaultLabels,
	}, labels)
	if err := prometheus.Register(h); err != nil {
		return err
	}
	MetricCollectionHistogramVec[subsystem+name] = h
	return nil
}

func createGaugeVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	if _, ok := MetricCollectionGaugeVec[subsystem+name]; ok {
		return nil
	}
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help(subsystem, name),
		ConstLabels: defaultLabels,
	}, labels)
	if err := prometheus.Register(g); err != nil {
		return err
	}
	MetricCollectionGaugeVec[subsystem+name] = g
	return nil
}

func help(subsystem, name string) string {
	return subsystem + " " + name
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func IncGaugeVec(subsystem, name string, labelValues ...string) {
	AddGaugeVec(subsystem, name, 1, labelValues...)
}

func AddGaugeVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionGaugeVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] gauge not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogram(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogram[subsystem+name]; ok {
		v.Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram not found", "subsystem", subsystem, "name", name)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

func AddContactOperation(operation, result string) {
	IncCounterVec(SystemContacts, MetricContactOperations, operation, result)
}

func AddNotificationDelivery(result string, took time.Duration) {
	IncCounterVec(SystemNotifications, MetricNotificationDeliveries, result)
	if took > 0 {
		AddHistogram(SystemNotifications, MetricNotificationDeliveryTiming, took.Seconds())
	}
}

func AddQueueMessage(queue, result string) {
	IncCounterVec(SystemQueue, MetricQueueMessages, queue, result)
}

// IncNotificationBacklog and DecNotificationBacklog track notifications
// accepted by a notifier but not yet handed to the webhook.
func IncNotificationBacklog(mode string) {
	IncGaugeVec(SystemNotifications, MetricNotificationBacklog, mode)
}

func DecNotificationBacklog(mode string) {
	AddGaugeVec(SystemNotifications, MetricNotificationBacklog, -1, mode)
}

func AddAdminLoginDenied() {
	IncCounter(SystemAdmin, MetricAdminLoginsDenied)
}

// HTTPMiddleware counts requests by the matched route pattern so ids in the
// path don't turn into label values.
func HTTPMiddleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		if !MetricSystemEnabled {
			return
		}
		route, _ := ctx.UserValue(router.MatchedRoutePathParam).(string)
		if route == "" {
			route = "unmatched"
		}
		method := string(ctx.Method())
		IncCounterVec(SystemHTTP, MetricHTTPRequests, method, route, strconv.Itoa(ctx.Response.StatusCode()))
		AddHistogramVec(SystemHTTP, MetricHTTPRequestDuration, time.Since(start).Seconds(), method, route)
	}
}
