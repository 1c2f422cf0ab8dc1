// Command escalationd runs the escalation ladder's ingest/promote loop:
// absorbing pending alerts into escalations and promoting every non-terminal
// escalation whose level threshold has elapsed (§4.5, §9).
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/researchctl/sentinel/internal/daemon"
	"github.com/researchctl/sentinel/internal/version"
	"github.com/researchctl/sentinel/internal/wire"
)

func main() {
	interval := flag.Duration("interval", 60*time.Second, "time between ingest/promote passes")
	basePath := flag.String("base-path", "", "institute base path (default: $SENTINEL_BASE_PATH or /institute)")
	flag.Parse()

	log.Printf("escalationd %s starting, interval=%s", version.String(), *interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := wire.Bootstrap(wire.ResolveBasePath(*basePath))
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer c.Close()

	err = daemon.Run(ctx, *interval, func(tickCtx context.Context) error {
		if tickErr := c.Escalation.RunTick(tickCtx); tickErr != nil {
			log.Printf("escalation tick error: %v", tickErr)
		}
		return nil
	})
	if err != nil && err != context.Canceled {
		log.Fatalf("escalationd stopped: %v", err)
	}
	if auditErr := c.Audit.Log(context.Background(), "system", "daemon_stopped", "escalationd", ""); auditErr != nil {
		log.Printf("failed to audit shutdown: %v", auditErr)
	}
	log.Println("escalationd shutting down")
}
