// Command token-gen mints signed capability tokens for the submission
// path: a random URL-safe payload followed by its truncated HMAC
// signature.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/user/log-vault/internal/auth"
)

func main() {
	secret := flag.String("secret", os.Getenv("SERVER_SECRET"), "Shared server secret (defaults to SERVER_SECRET)")
	payload := flag.String("payload", "", "Payload to sign; random when empty")
	count := flag.Int("n", 1, "Number of tokens to mint")
	flag.Parse()

	if *secret == "" {
		log.Fatal("a server secret is required (-secret or SERVER_SECRET)")
	}

	validator := auth.NewTokenValidator([]byte(*secret))

	for i := 0; i < *count; i++ {
		p := *payload
		if p == "" {
			p = randomPayload()
		}
		fmt.Println(validator.Sign(p))
	}
}

func randomPayload() string {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("failed to read random bytes: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
