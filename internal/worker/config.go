package worker

type Config struct {
	NumWorkers int `envconfig:"num_workers" default:"16"`
}
