package mirror

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sketchboard._tcp"

// Advertise announces the mirror on port over mDNS. Shut the returned server down to stop.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"SketchBoard mirror"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse looks up mirrors on the local network and calls found with the
// host:port of each one. It returns when the lookup times out.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()

	err := mdns.Lookup(serviceType, entries)
	close(entries)
	wg.Wait()
	return err
}
