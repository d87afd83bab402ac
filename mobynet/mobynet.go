// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// DefaultDockerHost is the API endpoint of a local Docker daemon.
const DefaultDockerHost = "unix:///var/run/docker.sock"

// ContainerInspector inspects containers; it is implemented by the Docker
// client.
type ContainerInspector interface {
	ContainerInspect(ctx context.Context, container string) (types.ContainerJSON, error)
}

var _ ContainerInspector = (*client.Client)(nil)

// Netns references the network namespace of a container.
type Netns struct {
	Container string   // container name without Docker's leading slash.
	Ref       string   // filesystem path referencing the network namespace.
	Networks  []string // names of the Docker networks attached, sorted.
}

// Connect returns a new Docker client for the specified API endpoint, or for
// the local Docker daemon if host is empty.
func Connect(host string) (*client.Client, error) {
	if host == "" {
		host = DefaultDockerHost
	}
	return client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
}

// ContainerNetns takes on the position of the container identified by name
// or ID and returns a reference to its network namespace, so that proxies can
// be probed from inside that container's network view.
func ContainerNetns(ctx context.Context, moby ContainerInspector, nameOrID string) (Netns, error) {
	details, err := moby.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return Netns{}, err
	}
	if details.ContainerJSONBase == nil || details.State == nil || details.State.Pid == 0 {
		return Netns{}, fmt.Errorf("container '%s' is not running", nameOrID)
	}
	netns := Netns{
		Container: strings.TrimPrefix(details.Name, "/"), // argh, Docker's "/name" legacy!
		Ref:       fmt.Sprintf("/proc/%d/ns/net", details.State.Pid),
	}
	if details.NetworkSettings != nil {
		for name := range details.NetworkSettings.Networks {
			netns.Networks = append(netns.Networks, name)
		}
		sort.Strings(netns.Networks)
	}
	return netns, nil
}
