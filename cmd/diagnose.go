package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check database connectivity step by step",
	Long: `Probes the lead database connection in three independent steps: DNS
resolution of the host, a TCP dial, and an SQL ping through the driver.
Each step reports separately so a failure pinpoints the broken layer.`,
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("store"); err != nil {
		return err
	}

	u, err := url.Parse(cfg.Store.DatabaseURL)
	if err != nil {
		return eris.Wrap(err, "diagnose: parse database url")
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "5432"
	}

	out := cmd.OutOrStdout()
	failed := 0

	// 1. DNS
	dnsCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	addrs, err := net.DefaultResolver.LookupHost(dnsCtx, host)
	cancel()
	if err != nil {
		failed++
		fmt.Fprintf(out, "[fail] DNS resolution of %s: %v\n", host, err)
	} else {
		fmt.Fprintf(out, "[ ok ] DNS resolution: %s -> %v\n", host, addrs)
	}

	// 2. TCP
	conn, err := (&net.Dialer{Timeout: 5 * time.Second}).DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		failed++
		fmt.Fprintf(out, "[fail] TCP dial %s:%s: %v\n", host, port, err)
	} else {
		conn.Close()
		fmt.Fprintf(out, "[ ok ] TCP dial %s:%s\n", host, port)
	}

	// 3. SQL ping through the pool
	st, err := openStore(ctx)
	if err != nil {
		failed++
		fmt.Fprintf(out, "[fail] SQL connection: %v\n", err)
	} else {
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			failed++
			fmt.Fprintf(out, "[fail] SQL ping: %v\n", err)
		} else {
			fmt.Fprintln(out, "[ ok ] SQL connection and ping")
		}
	}

	if failed > 0 {
		return eris.Errorf("diagnose: %d of 3 checks failed", failed)
	}
	return nil
}
