// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/network"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// inspector fakes container inspection.
type inspector map[string]types.ContainerJSON

func (i inspector) ContainerInspect(_ context.Context, name string) (types.ContainerJSON, error) {
	details, ok := i[name]
	if !ok {
		return types.ContainerJSON{}, errors.New("no such container")
	}
	return details, nil
}

func container(name string, pid int, networks ...string) types.ContainerJSON {
	details := types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{
			Name:  "/" + name,
			State: &types.ContainerState{Pid: pid, Running: pid != 0},
		},
		NetworkSettings: &types.NetworkSettings{
			Networks: map[string]*network.EndpointSettings{},
		},
	}
	for _, net := range networks {
		details.NetworkSettings.Networks[net] = &network.EndpointSettings{}
	}
	return details
}

var _ = Describe("Docker container network namespaces", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("references a container's network namespace", func(ctx context.Context) {
		moby := inspector{"foo": container("foo", 666, "net_B", "net_A")}
		Expect(ContainerNetns(ctx, moby, "foo")).To(Equal(Netns{
			Container: "foo",
			Ref:       "/proc/666/ns/net",
			Networks:  []string{"net_A", "net_B"},
		}))
	})

	It("rejects stopped and unknown containers", func(ctx context.Context) {
		moby := inspector{"bar": container("bar", 0)}
		Expect(ContainerNetns(ctx, moby, "bar")).Error().To(MatchError(ContainSubstring("not running")))
		Expect(ContainerNetns(ctx, moby, "baz")).Error().To(MatchError("no such container"))
	})

	It("talks to a real Docker daemon", NodeTimeout(30*time.Second), func(ctx context.Context) {
		if _, err := os.Stat("/var/run/docker.sock"); err != nil {
			Skip("needs Docker")
		}
		cln := Successful(Connect(""))
		defer cln.Close()
		_, err := ContainerNetns(ctx, cln, "proxyhunter-test-nonexisting-container")
		Expect(err).To(HaveOccurred())
	})

})
