package testingh

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultPort = "9092/tcp"
	defaultTag  = "latest"
)

var hostName = os.Getenv("OVERRIDE_HOSTNAME")

func init() {
	const defaultHostName = "localhost"

	if hostName == "" {
		hostName = defaultHostName
	}
}

// Container is a single node redpanda broker for integration tests.
type Container struct {
	resource *dockertest.Resource
	broker   string
}

func NewContainer() (*Container, error) {
	hostPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free hostPort: %w", err)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	tag := os.Getenv("REDPANDA_TAG")
	if tag == "" {
		tag = defaultTag
	}

	resource, err := pool.RunWithOptions(
		&dockertest.RunOptions{
			Repository: "redpandadata/redpanda",
			Tag:        tag,
			Auth: docker.AuthConfiguration{
				Username: os.Getenv("ARTIFACTORY_USER"),
				Password: os.Getenv("ARTIFACTORY_PWD"),
			},
			PortBindings: map[docker.Port][]docker.PortBinding{
				defaultPort: {{
					HostIP:   hostName,
					HostPort: strconv.Itoa(hostPort),
				}},
			},
			Cmd: []string{
				"redpanda start",
				"--overprovisioned",
				"--smp 1",
				"--memory 1G",
				"--reserve-memory 0M",
				"--node-id 0",
				"--check=false",
				fmt.Sprintf("--advertise-kafka-addr %s:%v", hostName, hostPort),
			},
		}, func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{
				Name: "no",
			}
		})
	if err != nil {
		return nil, fmt.Errorf("could not create a container: %w", err)
	}

	container := &Container{
		resource: resource,
		broker:   fmt.Sprintf("%s:%s", hostName, resource.GetPort(defaultPort)),
	}

	// the broker accepts connections a while after the container is up
	if err := pool.Retry(container.ping); err != nil {
		_ = resource.Close()
		return nil, fmt.Errorf("could not connect to redpanda: %w", err)
	}

	return container, nil
}

func (c *Container) Broker() string {
	return c.broker
}

func (c *Container) Purge() error {
	return c.resource.Close()
}

func (c *Container) ping() error {
	client, err := kgo.NewClient(kgo.SeedBrokers(c.broker))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Ping(ctx)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
