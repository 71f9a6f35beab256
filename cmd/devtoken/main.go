// Command devtoken mints access tokens for local development against a
// dashboard started with AUTH_JWKS_FILE. The signing key seed is kept in
// -key so tokens stay valid across runs.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
)

func main() {
	var (
		keyPath  = flag.String("key", "dev-signing.key", "Ed25519 seed file, created if missing")
		jwksPath = flag.String("jwks", "dev-jwks.json", "where to write the public JWKS")
		subject  = flag.String("sub", "dev-owner", "owner id (token subject)")
		scopes   = flag.String("scopes", "dashboard:read dashboard:write", "space separated scopes")
		issuer   = flag.String("iss", "bartab-auth", "issuer claim")
		audience = flag.String("aud", "", "comma separated audience")
		ttl      = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	priv, err := loadOrCreateKey(*keyPath)
	if err != nil {
		log.Fatalf("signing key: %v", err)
	}
	signer, err := jwtx.NewSignerEdDSA("dev", priv)
	if err != nil {
		log.Fatalf("signer: %v", err)
	}

	jwks, err := json.MarshalIndent(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}}, "", "  ")
	if err != nil {
		log.Fatalf("encode jwks: %v", err)
	}
	if err := os.WriteFile(*jwksPath, jwks, 0o644); err != nil {
		log.Fatalf("write jwks: %v", err)
	}

	var aud []string
	if *audience != "" {
		aud = strings.Split(*audience, ",")
	}
	claims := jwtx.NewAccessClaims(*subject, strings.Fields(*scopes), *ttl, *issuer, aud, time.Now().UTC())
	token, err := signer.Sign(claims)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(token)
}

func loadOrCreateKey(path string) (ed25519.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(b)))
		if err != nil {
			return nil, err
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("%s: want a %d byte seed", path, ed25519.SeedSize)
		}
		return ed25519.NewKeyFromSeed(seed), nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	seed := base64.StdEncoding.EncodeToString(priv.Seed())
	if err := os.WriteFile(path, []byte(seed+"\n"), 0o600); err != nil {
		return nil, err
	}
	return priv, nil
}
