// Command hashpw produces the bcrypt hash MERCATO_ADMIN_PASSWORD_HASH
// expects, and optionally a fresh signing key for MERCATO_JWT_SIGNING_KEY.
//
//	hashpw <password>
//	hashpw -key
package main

import (
	"flag"
	"fmt"
	"os"

	"mercato/pkg/secrets"
)

func main() {
	genKey := flag.Bool("key", false, "generate a random signing key instead of hashing a password")
	flag.Parse()

	if *genKey {
		key, err := secrets.Generate()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password> | hashpw -key")
		os.Exit(2)
	}

	hash, err := secrets.Hash(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
