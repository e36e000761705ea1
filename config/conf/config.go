package conf

type Config struct {
	DBHost string `json:"DB_HOST"`

	DBUser string `json:"DB_USER"`

	DBPassword string `json:"DB_PASSWORD"`

	DBPort string `json:"DB_PORT"`

	DBDatabase string `json:"DB_DATABASE"`

	HTTPPort string `json:"HTTP_PORT"`

	MetricsPort string `json:"METRICS_PORT"`

	ZipkinEndpoint string `json:"ZIPKIN_ENDPOINT"`

	ApplicationEnv string `json:"APP_ENV"`

	ApplicationName string `json:"APPLICATION_NAME"`

	KafkaBrokerAddress string `json:"KAFKA_BROKER_ADDRESS"`

	RazorpayKeyId string `json:"RAZORPAY_KEY_ID"`

	RazorpayKeySecret string `json:"RAZORPAY_KEY_SECRET"`

	RazorpayWebhookSecret string `json:"RAZORPAY_WEBHOOK_SECRET"`

	DefaultCurrency string `json:"DEFAULT_CURRENCY"`

	GatewayTimeoutSeconds int `json:"GATEWAY_TIMEOUT_SECONDS"`

	LogLevel string `json:"LOG_LEVEL"`
}
