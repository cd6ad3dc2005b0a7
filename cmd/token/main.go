// Command token prints a bearer token accepted by the API when JWT_SECRET is set.
package main

import (
	"flag"
	"fmt"
	"os"

	"goals-api/internal/auth"
	"goals-api/internal/config"
)

func main() {
	sub := flag.String("sub", "", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRY)")
	flag.Parse()

	cfg := config.Load()
	if !cfg.AuthEnabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	lifetime := cfg.JWTExpiry
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.GenerateToken([]byte(cfg.JWTSecret), *sub, lifetime)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
