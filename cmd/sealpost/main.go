// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/carabiner-dev/sealpost"
	"github.com/carabiner-dev/sealpost/options"
)

const usage = `sealpost - one-time secret sharing

Usage:
  sealpost store <secret> [ttl_seconds]       Store a secret, print its retrieval key
  sealpost get <key>                          Retrieve (and destroy) a secret
  sealpost delete <key>                       Destroy a secret without reading it
  sealpost ping                               Check if the server is reachable

Options:
  -server string      Server base URL (default http://localhost:8000)
  -passphrase string  Passphrase guarding deletion of the secret

A secret can be retrieved exactly once. Whether it is read, deleted or
left to expire, it is gone for good afterwards.

Examples:
  # Store with the server's default TTL (1 hour)
  sealpost store "my-api-key"

  # Store for 5 minutes with a deletion passphrase
  sealpost -passphrase hunter2 store "my-api-key" 300

  # Retrieve the secret (this destroys it)
  sealpost get 6e1f6a1e-8a33-4874-9272-1a7a14085c2b

  # Destroy it unread
  sealpost -passphrase hunter2 delete 6e1f6a1e-8a33-4874-9272-1a7a14085c2b
`

func main() {
	serverURL := flag.String("server", "", "Server base URL")
	passphrase := flag.String("passphrase", "", "Deletion passphrase")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	clientOpts := options.DefaultClient
	if *serverURL != "" {
		clientOpts.ServerURL = *serverURL
	}

	client := sealpost.NewClient(clientOpts)
	ctx := context.Background()

	var err error
	switch args[0] {
	case "store":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}
		storeOpts := []options.StoreOptsFn{}
		if *passphrase != "" {
			storeOpts = append(storeOpts, options.WithPassphrase(*passphrase))
		}
		if len(args) > 2 {
			ttl, convErr := strconv.Atoi(args[2])
			if convErr != nil {
				fmt.Fprintf(os.Stderr, "Invalid ttl_seconds: %v\n", convErr)
				os.Exit(1)
			}
			storeOpts = append(storeOpts, options.WithTTL(ttl))
		}

		var key string
		key, err = client.Store(ctx, args[1], storeOpts...)
		if err == nil {
			fmt.Println(key)
		}

	case "get":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}
		var secret string
		secret, err = client.Get(ctx, args[1])
		if err == nil {
			fmt.Println(secret)
		}

	case "delete":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}
		err = client.Delete(ctx, args[1], *passphrase)
		if err == nil {
			fmt.Println("secret deleted")
		}

	case "ping":
		err = client.Ping(ctx)
		if err == nil {
			fmt.Println("server is alive")
		}

	default:
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
