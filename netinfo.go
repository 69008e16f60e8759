package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Set by wrapper scripts on boxes where interface probing is unreliable
const envNetworkIP = "NETWORK_IP"

const networkPollInterval = 500 * time.Millisecond

// WaitForNetwork blocks until the machine has a routable IPv4 address and
// returns it for the panel header. The device is pointless without one, so
// the caller treats a timeout as fatal.
func WaitForNetwork(ctx context.Context, timeout time.Duration) (string, error) {
	return waitForNetwork(ctx, timeout, primaryAddress, os.Getenv)
}

func waitForNetwork(ctx context.Context, timeout time.Duration, lookup func() (string, bool), getenv func(string) string) (string, error) {
	if ip := getenv(envNetworkIP); ip != "" {
		log.Info().Str("address", ip).Msg("Using address from environment")
		return ip, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		if addr, ok := lookup(); ok {
			log.Info().Str("address", addr).Msg("Network is up")
			return addr, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("no routable address after %s", timeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(networkPollInterval):
		}
	}
}

// primaryAddress returns the first non-loopback IPv4 address, if any.
func primaryAddress() (string, bool) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", false
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String(), true
		}
	}
	return "", false
}
