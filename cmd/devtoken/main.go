// devtoken mints platform-style access tokens for local development and
// testing against carelink, and generates the secrets and keys to sign them.
//
//	devtoken --sub patient-1                      # HS256 with $CARELINK_JWT_SECRET
//	devtoken --sub patient-1 --key es256.pem --kid dev-1
//	devtoken --gen-secret
//	devtoken --gen-key ES256 > es256.pem
//	devtoken --key es256.pem --kid dev-1 --jwks   # public JWKS for CARELINK_JWKS_URL
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/glucocare/carelink/pkg/cryptox"
	"github.com/glucocare/carelink/pkg/jwtx"
	"github.com/spf13/pflag"
)

type options struct {
	subject  string
	role     string
	issuer   string
	audience []string
	ttl      time.Duration
	secret   string
	keyPath  string
	alg      string
	kid      string

	genSecret bool
	genKey    string
	jwks      bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options

	flagSet := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.subject, "sub", "s", "", "subject (caller id) of the token")
	flagSet.StringVar(&opts.role, "role", "authenticated", "role claim")
	flagSet.StringVar(&opts.issuer, "iss", "", "issuer claim")
	flagSet.StringSliceVar(&opts.audience, "aud", []string{"authenticated"}, "audience claim (repeatable)")
	flagSet.DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	flagSet.StringVar(&opts.secret, "secret", os.Getenv("CARELINK_JWT_SECRET"), "HS256 shared secret")
	flagSet.StringVar(&opts.keyPath, "key", "", "PEM private key; signs asymmetrically instead of HS256")
	flagSet.StringVar(&opts.alg, "alg", "", "algorithm for --key (RS256, ES256, EdDSA; default: inferred from key)")
	flagSet.StringVar(&opts.kid, "kid", "dev-key-1", "key id for --key")
	flagSet.BoolVar(&opts.genSecret, "gen-secret", false, "print a random HS256 secret and exit")
	flagSet.StringVar(&opts.genKey, "gen-key", "", "print a new PEM private key for the algorithm and exit")
	flagSet.BoolVar(&opts.jwks, "jwks", false, "print the public JWKS for --key and exit")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	switch {
	case opts.genSecret:
		secret, err := cryptox.GenerateSecret(48)
		if err != nil {
			return err
		}
		fmt.Println(secret)
		return nil

	case opts.genKey != "":
		pemKey, err := cryptox.GenerateSigningKey(opts.genKey)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(pemKey)
		return err
	}

	signer, err := newSigner(opts)
	if err != nil {
		return err
	}

	if opts.jwks {
		kp, ok := signer.(*jwtx.KeyPairSigner)
		if !ok {
			return errors.New("--jwks requires --key")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jwtx.JWKS{Keys: []jwtx.JWK{kp.PublicJWK()}})
	}

	if opts.subject == "" {
		return errors.New("--sub is required")
	}

	claims := jwtx.NewClaims(opts.subject, opts.role, opts.issuer, opts.audience, opts.ttl, time.Now())
	token, err := signer.Sign(claims)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func newSigner(opts options) (jwtx.Signer, error) {
	if opts.keyPath == "" {
		if opts.secret == "" {
			return nil, errors.New("--secret or CARELINK_JWT_SECRET is required for HS256")
		}
		return jwtx.NewHMACSigner([]byte(opts.secret))
	}

	pemKey, err := os.ReadFile(opts.keyPath)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	if opts.alg != "" {
		return jwtx.NewSigner(opts.alg, opts.kid, pemKey)
	}

	// The key type decides the algorithm; only the matching one loads.
	for _, alg := range []string{jwtx.AlgorithmRS256, jwtx.AlgorithmES256, jwtx.AlgorithmEdDSA} {
		s, err := jwtx.NewSigner(alg, opts.kid, pemKey)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, jwtx.ErrAlgMismatch) {
			return nil, err
		}
	}
	return nil, errors.New("cannot infer algorithm from key; pass --alg")
}
