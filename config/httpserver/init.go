package httpserver

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/kirana-labs/paybridge/config/application"
	"github.com/kirana-labs/paybridge/service"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
)

func InitHttpServer(httpPort string, paymentService service.PaymentService) {
	handler := NewHandler(paymentService, application.LOGGER)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	var root http.Handler = mux
	if application.TRACER != nil {
		root = zipkinhttp.NewServerMiddleware(application.TRACER)(mux)
	}

	server := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			// sig is a ^C, handle it
			application.LOGGER.Info("Shutting down HTTP Server")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			_ = server.Shutdown(ctx)
			cancel()
		}
	}()

	// start HTTP server
	application.LOGGER.Info("HTTP Server Started, Listening on " + httpPort)

	err := server.ListenAndServe()

	if err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
