// Command hash-key produces the bcrypt hash of an edge API key secret and
// prints the matching AUTH_EDGE_KEYS entry.
//
// Usage:
//
//	hash-key --origin=lab-1 < secret.txt
//
// The secret is read from stdin so it stays out of shell history. The
// agent then authenticates with "X-Api-Key: lab-1:<secret>".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/heartmarshall/slide-relay/internal/auth"
)

func main() {
	origin := flag.String("origin", "", "origin id the key belongs to")
	flag.Parse()

	if *origin == "" || strings.ContainsAny(*origin, ":,") {
		fmt.Fprintln(os.Stderr, "Usage: hash-key --origin=lab-1 < secret.txt (origin must not contain ':' or ',')")
		os.Exit(1)
	}

	secret, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && secret == "" {
		log.Fatalf("read secret from stdin: %v", err)
	}
	secret = strings.TrimRight(secret, "\r\n")

	hash, err := auth.HashAPIKeySecret(secret)
	if err != nil {
		log.Fatalf("hash secret: %v", err)
	}

	fmt.Printf("%s:%s\n", *origin, hash)
}
