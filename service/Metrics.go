package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paybridge",
		Name:      "gateway_orders_created_total",
		Help:      "Gateway orders created by the order initiator.",
	})

	webhookCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paybridge",
		Name:      "payment_webhook_events_total",
		Help:      "Webhook deliveries by handling outcome.",
	}, []string{"outcome"})
)
