package dispatch

import "time"

type Config struct {
	Timeout      time.Duration `envconfig:"timeout" default:"10s"`
	RetryMax     int           `envconfig:"retry_max" default:"0"`
	RetryWaitMin time.Duration `envconfig:"retry_wait_min" default:"1s"`
	RetryWaitMax time.Duration `envconfig:"retry_wait_max" default:"30s"`
}
