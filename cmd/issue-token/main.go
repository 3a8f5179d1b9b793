// Command issue-token mints an operator access token for the read, proxy
// and admin APIs.
//
// Usage:
//
//	issue-token --subject=alice [--role=admin] [--ttl=24h]
//
// Requires AUTH_JWT_SECRET; AUTH_JWT_ISSUER defaults to "slide-relay".
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/slide-relay/internal/auth"
)

func main() {
	subject := flag.String("subject", "", "operator name recorded in the token")
	role := flag.String("role", auth.RoleOperator, "operator or admin")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "Usage: issue-token --subject=alice [--role=admin] [--ttl=24h]")
		os.Exit(1)
	}
	if !auth.ValidRole(*role) {
		log.Fatalf("unknown role %q", *role)
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if len(secret) < 32 {
		log.Fatal("AUTH_JWT_SECRET environment variable must be at least 32 characters")
	}
	issuer := os.Getenv("AUTH_JWT_ISSUER")
	if issuer == "" {
		issuer = "slide-relay"
	}

	token, err := auth.NewJWTManager(secret, issuer, *ttl).GenerateAccessToken(*subject, *role, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
