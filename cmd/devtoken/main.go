// Command devtoken mints a caller access token signed with JWT_SECRET, for
// exercising the API locally without the identity provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/bucharest-discover/internal/utils"
)

func main() {
	sub := flag.String("sub", "", "user id placed in the token subject (required)")
	email := flag.String("email", "", "email claim; lets the server provision the caller on first use")
	first := flag.String("first", "", "given_name claim")
	last := flag.String("last", "", "family_name claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *sub == "" {
		flag.Usage()
		os.Exit(2)
	}
	tok, err := utils.NewAccessToken(secret, *sub, utils.Claims{Email: *email, GivenName: *first, FamilyName: *last}, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok.Token)
}
